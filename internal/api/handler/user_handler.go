package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/catalog-api/internal/api/metrics"
	"github.com/bookshelf/catalog-api/internal/core/ports"
	"github.com/bookshelf/catalog-api/internal/core/service"
)

// TokenDecoder exposes the claims of the caller's bearer token.
type TokenDecoder interface {
	Decode(token string) (*service.TokenClaims, error)
}

// UserHandler serves profile endpoints for the caller and for administrators.
type UserHandler struct {
	users   ports.UserService
	decoder TokenDecoder
}

func NewUserHandler(users ports.UserService, decoder TokenDecoder) *UserHandler {
	return &UserHandler{users: users, decoder: decoder}
}

type updateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	Password  *string `json:"password,omitempty"  validate:"omitempty,max=72"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=255"`
	LastName  *string `json:"lastName,omitempty"  validate:"omitempty,max=255"`
	Country   *string `json:"country,omitempty"   validate:"omitempty,max=255"`
	Role      *string `json:"role,omitempty"`
}

func (r updateUserRequest) toInput() ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Username:  r.Username,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Country:   r.Country,
		Role:      r.Role,
	}
}

type infoResponse struct {
	User   userResponse         `json:"user"`
	Claims *service.TokenClaims `json:"claims,omitempty"`
}

type updateSelfResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type userEnvelope struct {
	User userResponse `json:"user"`
}

// Info returns the caller's profile and token claims.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  infoResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/info [get]
func (h *UserHandler) Info(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.users.Profile(c.Request().Context(), id.Username)
	if err != nil {
		return err
	}

	resp := infoResponse{User: toUserResponse(user)}
	if token := bearerFromHeader(c); token != "" {
		if claims, err := h.decoder.Decode(token); err == nil {
			resp.Claims = claims
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateSelf edits the caller's profile and returns a fresh token.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Profile changes"
// @Success      200   {object}  updateSelfResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/update [put]
func (h *UserHandler) UpdateSelf(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.users.UpdateSelf(c.Request().Context(), id.Username, req.toInput())
	if err != nil {
		return err
	}
	metrics.TokensIssuedTotal.Inc()
	return c.JSON(http.StatusOK, updateSelfResponse{User: toUserResponse(user), Token: token})
}

// ListAll returns every user.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/all-info [get]
func (h *UserHandler) ListAll(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// AdminUpdate edits any user, including their role.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string             true  "Username"
// @Param        body      body      updateUserRequest  true  "Profile changes"
// @Success      200       {object}  userEnvelope
// @Failure      404       {object}  map[string]string
// @Router       /api/admin/update/{username} [put]
func (h *UserHandler) AdminUpdate(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateByAdmin(c.Request().Context(), c.Param("username"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{User: toUserResponse(user)})
}

// AdminDelete removes a user and their favorites.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  messageResponse
// @Failure      404       {object}  map[string]string
// @Router       /api/admin/delete/{username} [delete]
func (h *UserHandler) AdminDelete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("username")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}
