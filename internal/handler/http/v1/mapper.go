package v1

import (
	"github.com/shenikar/safety_guardian/internal/models"
	"github.com/shenikar/safety_guardian/internal/safety"
)

// DTOToContactModel преобразует DTO в доменную модель контакта
func DTOToContactModel(dto ContactRequest) *models.Contact {
	return &models.Contact{
		Name:         dto.Name,
		Phone:        dto.Phone,
		Relationship: dto.Relationship,
	}
}

// DTOToLocationModel преобразует DTO позиции; время фиксации проставит менеджер, если его нет
func DTOToLocationModel(dto LocationReportRequest) models.Location {
	loc := models.Location{
		Latitude:  *dto.Latitude,
		Longitude: *dto.Longitude,
		Accuracy:  dto.Accuracy,
	}
	if dto.CapturedAt != nil {
		loc.CapturedAt = dto.CapturedAt.UTC()
	}
	return loc
}

// ModelToContactResponse преобразует доменную модель в DTO для ответа
func ModelToContactResponse(model *models.Contact) *ContactResponse {
	return &ContactResponse{
		ID:           model.ID,
		Name:         model.Name,
		Phone:        model.Phone,
		Relationship: model.Relationship,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// ModelsToContactResponses преобразует слайс моделей в слайс DTO
func ModelsToContactResponses(models []*models.Contact) []*ContactResponse {
	responses := make([]*ContactResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToContactResponse(model)
	}
	return responses
}

func modelToLocationResponse(loc *models.Location) *LocationResponse {
	if loc == nil {
		return nil
	}
	return &LocationResponse{
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		Accuracy:   loc.Accuracy,
		CapturedAt: loc.CapturedAt,
	}
}

// ModelToSessionResponse преобразует сессию в DTO
func ModelToSessionResponse(model *models.AlertSession) *SessionResponse {
	return &SessionResponse{
		ID:              model.ID,
		Kind:            string(model.Kind),
		Status:          string(model.Status),
		StartedAt:       model.StartedAt,
		DurationSeconds: model.DurationSeconds,
		ExpiresAt:       model.ExpiresAt,
		EndedAt:         model.EndedAt,
		LastLocation:    modelToLocationResponse(model.LastLocation),
	}
}

// ModelsToSessionResponses преобразует историю сессий в DTO
func ModelsToSessionResponses(models []*models.AlertSession) []*SessionResponse {
	responses := make([]*SessionResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToSessionResponse(model)
	}
	return responses
}

// SnapshotToResponse преобразует снимок состояния в DTO
func SnapshotToResponse(snap *safety.Snapshot) *SnapshotResponse {
	return &SnapshotResponse{
		Session:          ModelToSessionResponse(snap.Session),
		RemainingSeconds: snap.RemainingSeconds,
		ElapsedSeconds:   snap.ElapsedSeconds,
		LowTime:          snap.LowTime,
		LocationAcquired: snap.Session.LastLocation != nil,
	}
}

// ModelsToLocationPointResponses преобразует трек в DTO
func ModelsToLocationPointResponses(points []*models.LocationPoint) []*LocationPointResponse {
	responses := make([]*LocationPointResponse, len(points))
	for i, p := range points {
		responses[i] = &LocationPointResponse{
			ID:               p.ID,
			LocationResponse: *modelToLocationResponse(&p.Location),
		}
	}
	return responses
}
