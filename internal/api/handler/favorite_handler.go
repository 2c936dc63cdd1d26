package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/catalog-api/internal/api/metrics"
	"github.com/bookshelf/catalog-api/internal/core/domain"
	"github.com/bookshelf/catalog-api/internal/core/ports"
)

// FavoriteHandler serves the caller's favorite books.
type FavoriteHandler struct {
	favorites ports.FavoriteService
}

func NewFavoriteHandler(favorites ports.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

type favoriteRequest struct {
	BookID      string `json:"bookId"      validate:"required,max=50"`
	BookTitle   string `json:"bookTitle"   validate:"max=500"`
	BookCoverID string `json:"bookCoverId" validate:"max=50"`
}

func (r favoriteRequest) toInput() ports.AddFavoriteInput {
	return ports.AddFavoriteInput{BookID: r.BookID, BookTitle: r.BookTitle, BookCoverID: r.BookCoverID}
}

type favoritesResponse struct {
	Favorites []*domain.Favorite `json:"favorites"`
	Count     int                `json:"count"`
}

type addFavoriteResponse struct {
	Message  string           `json:"message"`
	Favorite *domain.Favorite `json:"favorite"`
}

type toggleFavoriteResponse struct {
	Message    string `json:"message"`
	IsFavorite bool   `json:"isFavorite"`
}

type checkFavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

// List returns the caller's favorites, newest first.
//
// @Summary      List favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  favoritesResponse
// @Router       /api/favorites [get]
func (h *FavoriteHandler) List(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	favs, err := h.favorites.List(c.Request().Context(), id.Username)
	if err != nil {
		return err
	}
	if favs == nil {
		favs = []*domain.Favorite{}
	}
	return c.JSON(http.StatusOK, favoritesResponse{Favorites: favs, Count: len(favs)})
}

// Add bookmarks a book.
//
// @Summary      Add favorite
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      favoriteRequest  true  "Book"
// @Success      201   {object}  addFavoriteResponse
// @Failure      409   {object}  map[string]string
// @Router       /api/favorites [post]
func (h *FavoriteHandler) Add(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req favoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	fav, err := h.favorites.Add(c.Request().Context(), id.Username, req.toInput())
	if err != nil {
		return err
	}
	metrics.FavoritesChangesTotal.WithLabelValues("add").Inc()
	return c.JSON(http.StatusCreated, addFavoriteResponse{Message: "Book added to favorites", Favorite: fav})
}

// Remove deletes a book from the caller's favorites.
//
// @Summary      Remove favorite
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        bookId  path      string  true  "Book ID"
// @Success      200     {object}  messageResponse
// @Failure      404     {object}  map[string]string
// @Router       /api/favorites/{bookId} [delete]
func (h *FavoriteHandler) Remove(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.favorites.Remove(c.Request().Context(), id.Username, c.Param("bookId")); err != nil {
		return err
	}
	metrics.FavoritesChangesTotal.WithLabelValues("remove").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Book removed from favorites"})
}

// Check reports whether a book is among the caller's favorites.
//
// @Summary      Check favorite
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        bookId  path      string  true  "Book ID"
// @Success      200     {object}  checkFavoriteResponse
// @Router       /api/favorites/check/{bookId} [get]
func (h *FavoriteHandler) Check(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	ok, err := h.favorites.IsFavorite(c.Request().Context(), id.Username, c.Param("bookId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkFavoriteResponse{IsFavorite: ok})
}

// Toggle adds the book when absent and removes it otherwise.
//
// @Summary      Toggle favorite
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      favoriteRequest  true  "Book"
// @Success      200   {object}  toggleFavoriteResponse
// @Router       /api/favorites/toggle [post]
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req favoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	on, err := h.favorites.Toggle(c.Request().Context(), id.Username, req.toInput())
	if err != nil {
		return err
	}
	resp := toggleFavoriteResponse{Message: "Book removed from favorites", IsFavorite: on}
	if on {
		resp.Message = "Book added to favorites"
		metrics.FavoritesChangesTotal.WithLabelValues("add").Inc()
	} else {
		metrics.FavoritesChangesTotal.WithLabelValues("remove").Inc()
	}
	return c.JSON(http.StatusOK, resp)
}

// Count returns how many favorites the caller has.
//
// @Summary      Count favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  countResponse
// @Router       /api/favorites/count [get]
func (h *FavoriteHandler) Count(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	n, err := h.favorites.Count(c.Request().Context(), id.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}
