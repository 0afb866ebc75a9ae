package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	types "github.com/yungbote/contacts-backend/internal/domain"
	"github.com/yungbote/contacts-backend/internal/http/response"
	"github.com/yungbote/contacts-backend/internal/platform/apierr"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
	"github.com/yungbote/contacts-backend/internal/platform/patch"
	"github.com/yungbote/contacts-backend/internal/services"
)

type ContactHandler struct {
	log            *logger.Logger
	contactService services.ContactService
}

func NewContactHandler(log *logger.Logger, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		log:            log.With("handler", "ContactHandler"),
		contactService: contactService,
	}
}

type contactResponse struct {
	ID        uint     `json:"id"`
	FullName  string   `json:"full_name"`
	Email     string   `json:"email"`
	Phone     *string  `json:"phone"`
	Tags      []string `json:"tags"`
	AvatarURL *string  `json:"avatar_url"`
}

func toContactResponse(c *types.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		FullName:  c.FullName,
		Email:     c.Email,
		Phone:     c.Phone,
		Tags:      c.TagList(),
		AvatarURL: c.AvatarURL,
	}
}

type createContactRequest struct {
	FullName string   `json:"full_name" validate:"required,min=2,max=120"`
	Email    string   `json:"email" validate:"required,email,max=255"`
	Phone    *string  `json:"phone" validate:"omitempty,max=32"`
	Tags     []string `json:"tags" validate:"omitempty,dive,required,max=64"`
}

type updateContactRequest struct {
	FullName patch.Field[string]   `json:"full_name"`
	Email    patch.Field[string]   `json:"email"`
	Phone    patch.Field[string]   `json:"phone"`
	Tags     patch.Field[[]string] `json:"tags"`
}

// POST /contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, invalidBody(err))
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if err := getValidator().Struct(req); err != nil {
		response.RespondAPIError(c, validationFailed(fieldErrors(err)...))
		return
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	created, err := h.contactService.Create(c.Request.Context(), &types.Contact{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Tags:     datatypes.NewJSONSlice(tags),
	})
	if err != nil {
		response.RespondAPIError(c, mapContactError(err))
		return
	}
	h.log.Info("Contact created", "contact_id", created.ID)
	response.RespondCreated(c, toContactResponse(created))
}

// GET /contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, err := parseContactID(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	found, err := h.contactService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, mapContactError(err))
		return
	}
	response.RespondOK(c, toContactResponse(found))
}

// PUT /contacts/:id
// Only fields present in the body are applied; "phone": null clears the phone.
func (h *ContactHandler) Update(c *gin.Context) {
	id, err := parseContactID(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var req updateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, invalidBody(err))
		return
	}
	p, fields := req.toPatch()
	if len(fields) > 0 {
		response.RespondAPIError(c, validationFailed(fields...))
		return
	}

	updated, err := h.contactService.Update(c.Request.Context(), id, p)
	if err != nil {
		response.RespondAPIError(c, mapContactError(err))
		return
	}
	response.RespondOK(c, toContactResponse(updated))
}

// DELETE /contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := parseContactID(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := h.contactService.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, mapContactError(err))
		return
	}
	h.log.Info("Contact deleted", "contact_id", id)
	response.RespondNoContent(c)
}

// GET /contacts?query=&tag=&limit=&offset=
func (h *ContactHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	rows, err := h.contactService.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondAPIError(c, mapContactError(err))
		return
	}
	out := make([]contactResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toContactResponse(row))
	}
	response.RespondOK(c, out)
}

func (r updateContactRequest) toPatch() (types.ContactPatch, []apierr.FieldError) {
	var (
		p      types.ContactPatch
		fields []apierr.FieldError
	)
	if r.FullName.IsSet() {
		if v, ok := r.FullName.Get(); ok {
			v = strings.TrimSpace(v)
			fields = append(fields, checkVar("full_name", v, ruleFullName)...)
			p.FullName = patch.Of(v)
		} else {
			fields = append(fields, apierr.FieldError{Field: "full_name", Message: "must not be null"})
		}
	}
	if r.Email.IsSet() {
		if v, ok := r.Email.Get(); ok {
			v = strings.TrimSpace(v)
			fields = append(fields, checkVar("email", v, ruleEmail)...)
			p.Email = patch.Of(v)
		} else {
			fields = append(fields, apierr.FieldError{Field: "email", Message: "must not be null"})
		}
	}
	if r.Phone.IsSet() {
		if v, ok := r.Phone.Get(); ok {
			fields = append(fields, checkVar("phone", v, rulePhone)...)
			p.Phone = patch.Of(v)
		} else {
			p.Phone = patch.Null[string]()
		}
	}
	if r.Tags.IsSet() {
		if v, ok := r.Tags.Get(); ok {
			if v == nil {
				v = []string{}
			}
			fields = append(fields, checkVar("tags", v, ruleTags)...)
			p.Tags = patch.Of(v)
		} else {
			fields = append(fields, apierr.FieldError{Field: "tags", Message: "must not be null"})
		}
	}
	return p, fields
}

func parseContactID(c *gin.Context) (uint, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, validationFailed(apierr.FieldError{Field: "id", Message: "must be a positive integer"})
	}
	return uint(id), nil
}

func parseListFilter(c *gin.Context) (types.ContactListFilter, error) {
	filter := types.ContactListFilter{
		Query:  strings.TrimSpace(c.Query("query")),
		Tag:    strings.TrimSpace(c.Query("tag")),
		Limit:  types.DefaultContactListLimit,
		Offset: 0,
	}
	var fields []apierr.FieldError
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		switch {
		case err != nil:
			fields = append(fields, apierr.FieldError{Field: "limit", Message: "must be an integer"})
		case n < 1:
			fields = append(fields, apierr.FieldError{Field: "limit", Message: "must be at least 1"})
		case n > types.MaxContactListLimit:
			filter.Limit = types.MaxContactListLimit
		default:
			filter.Limit = n
		}
	}
	if raw, ok := c.GetQuery("offset"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		switch {
		case err != nil:
			fields = append(fields, apierr.FieldError{Field: "offset", Message: "must be an integer"})
		case n < 0:
			fields = append(fields, apierr.FieldError{Field: "offset", Message: "must not be negative"})
		default:
			filter.Offset = n
		}
	}
	if len(fields) > 0 {
		return filter, validationFailed(fields...)
	}
	return filter, nil
}

func invalidBody(err error) error {
	return apierr.New(http.StatusUnprocessableEntity, "invalid_request", fmt.Errorf("invalid request body: %w", err))
}

func validationFailed(fields ...apierr.FieldError) error {
	return apierr.New(http.StatusUnprocessableEntity, "validation_error", types.ErrInvalidContact).WithFields(fields...)
}

func mapContactError(err error) error {
	if _, ok := apierr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, types.ErrContactNotFound):
		return apierr.New(http.StatusNotFound, "not_found", types.ErrContactNotFound)
	case errors.Is(err, types.ErrEmailConflict):
		return apierr.New(http.StatusConflict, "email_conflict", types.ErrEmailConflict)
	case errors.Is(err, types.ErrInvalidContact):
		return apierr.New(http.StatusUnprocessableEntity, "validation_error", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal_error", err)
	}
}
