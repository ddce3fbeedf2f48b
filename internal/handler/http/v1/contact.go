package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Create a trusted contact
// @Description Add a trusted contact. The phone is normalized and must be in international format.
// @Tags Contacts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Param contact body ContactRequest true "Contact"
// @Success 201 {object} ContactResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts [post]
func (h *Handler) createContact(c *gin.Context) {
	var input ContactRequest
	userID := currentUser(c)
	log := h.logger.WithField("method", "createContact").WithField("user_id", userID)

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToContactModel(input)
	model.UserID = userID
	if err := h.contactService.CreateContact(c.Request.Context(), model); err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToContactResponse(model))
}

// @Summary List trusted contacts
// @Description List the caller's trusted contacts in the order they were added.
// @Tags Contacts
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Success 200 {array} ContactResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts [get]
func (h *Handler) listContacts(c *gin.Context) {
	userID := currentUser(c)
	log := h.logger.WithField("method", "listContacts").WithField("user_id", userID)

	contacts, err := h.contactService.ListContacts(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToContactResponses(contacts))
}

// @Summary Get a trusted contact
// @Tags Contacts
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Param id path string true "Contact ID"
// @Success 200 {object} ContactResponse
// @Failure 400 {object} map[string]string "Invalid contact ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Router /contacts/{id} [get]
func (h *Handler) getContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}
	userID := currentUser(c)
	log := h.logger.WithField("method", "getContact").WithField("id", id)

	contact, err := h.contactService.GetContact(c.Request.Context(), userID, id)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToContactResponse(contact))
}

// @Summary Update a trusted contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Param id path string true "Contact ID"
// @Param contact body ContactRequest true "Contact"
// @Success 200 {object} ContactResponse
// @Failure 400 {object} map[string]string "Invalid contact ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts/{id} [put]
func (h *Handler) updateContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}
	userID := currentUser(c)
	log := h.logger.WithField("method", "updateContact").WithField("id", id)

	var input ContactRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToContactModel(input)
	model.ID = id
	model.UserID = userID

	if err := h.contactService.UpdateContact(c.Request.Context(), model); err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToContactResponse(model))
}

// @Summary Delete a trusted contact
// @Tags Contacts
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Param id path string true "Contact ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid contact ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Contact not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /contacts/{id} [delete]
func (h *Handler) deleteContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact ID"})
		return
	}
	userID := currentUser(c)
	log := h.logger.WithField("method", "deleteContact").WithField("id", id)

	if err := h.contactService.DeleteContact(c.Request.Context(), userID, id); err != nil {
		h.writeError(c, log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
