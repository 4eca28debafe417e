package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"contactsapi/src/app/http/dto"
	"contactsapi/src/app/http/response"
	"contactsapi/src/app/middleware"
	"contactsapi/src/core/domain"
	"contactsapi/src/core/usecase"
)

// ContactHandler handles contact endpoints.
type ContactHandler struct {
	contactService *usecase.ContactService
}

func NewContactHandler(contactService *usecase.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Create adds a contact.
// POST /v1/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", middleware.GetRequestID(c))
		return
	}
	contact, err := h.contactService.CreateContact(c.Request.Context(), req.ToInput())
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	c.Header("Location", "/v1/contacts/"+contact.ID.String())
	response.Created(c, dto.ContactFromDomain(contact))
}

// List returns every contact.
// GET /v1/contacts
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contactService.ListContacts(c.Request.Context())
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.ContactsFromDomain(contacts))
}

// Get returns one contact.
// GET /v1/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := parseContactID(c)
	if !ok {
		return
	}
	contact, err := h.contactService.GetContact(c.Request.Context(), id)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.ContactFromDomain(contact))
}

// Update replaces name, phone and email of a contact.
// PUT /v1/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := parseContactID(c)
	if !ok {
		return
	}
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", middleware.GetRequestID(c))
		return
	}
	contact, err := h.contactService.UpdateContact(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.ContactFromDomain(contact))
}

// Delete removes a contact.
// DELETE /v1/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseContactID(c)
	if !ok {
		return
	}
	if err := h.contactService.DeleteContact(c.Request.Context(), id); err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.NoContent(c)
}

func parseContactID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.FromDomainError(c, domain.NewValidationError("id", "must be a UUID"), middleware.GetRequestID(c))
		return uuid.Nil, false
	}
	return id, true
}
