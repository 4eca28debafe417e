package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"contactsapi/src/app/http/dto"
	"contactsapi/src/app/http/response"
	"contactsapi/src/app/middleware"
	"contactsapi/src/core/domain"
	"contactsapi/src/core/usecase"
)

// AreaCodeHandler handles DDD reference endpoints.
type AreaCodeHandler struct {
	contactService *usecase.ContactService
}

func NewAreaCodeHandler(contactService *usecase.ContactService) *AreaCodeHandler {
	return &AreaCodeHandler{contactService: contactService}
}

// List returns the whole reference table.
// GET /v1/area-codes
func (h *AreaCodeHandler) List(c *gin.Context) {
	codes, err := h.contactService.ListAreaCodes(c.Request.Context())
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.AreaCodesFromDomain(codes))
}

// Get returns one area code.
// GET /v1/area-codes/:code
func (h *AreaCodeHandler) Get(c *gin.Context) {
	code, ok := parseAreaCode(c)
	if !ok {
		return
	}
	ac, err := h.contactService.GetAreaCode(c.Request.Context(), code)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.AreaCodeFromDomain(ac))
}

// Contacts lists the contacts registered under an area code.
// GET /v1/area-codes/:code/contacts
func (h *AreaCodeHandler) Contacts(c *gin.Context) {
	code, ok := parseAreaCode(c)
	if !ok {
		return
	}
	contacts, err := h.contactService.ListContactsByAreaCode(c.Request.Context(), code)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.ContactsFromDomain(contacts))
}

func parseAreaCode(c *gin.Context) (int, bool) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 0 || code > 99 {
		response.FromDomainError(c, domain.NewValidationError("code", "must be a number between 0 and 99"), middleware.GetRequestID(c))
		return 0, false
	}
	return code, true
}
