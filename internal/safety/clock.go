package safety

import "time"

// Clock - источник текущего времени
type Clock interface {
	Now() time.Time
}

// SystemClock возвращает время в UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// DialURI собирает tel: ссылку для экстренного вызова
func DialURI(number string) string {
	return "tel:" + number
}
