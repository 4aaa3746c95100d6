package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/finbook/ledger-system/internal/core/ports"
)

// UserHandler handles HTTP requests for user operations.
type UserHandler struct {
	service ports.LedgerService
}

func NewUserHandler(service ports.LedgerService) *UserHandler {
	return &UserHandler{service: service}
}

// Resolve handles POST /v1/users.
//
// @Summary      Get or create a user by username
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      resolveUserRequest  true  "Username to resolve"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Resolve(c echo.Context) error {
	var req resolveUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.GetOrCreateUser(c.Request().Context(), req.Username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{UserID: user.ID, Username: user.Username})
}

// Delete handles DELETE /v1/users/:id. Deleting a user cascades the deletion
// of all of the user's transactions.
//
// @Summary      Delete a user and all owned transactions
// @Tags         users
// @Produce      json
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	deleted, err := h.service.DeleteUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
	}

	return c.NoContent(http.StatusNoContent)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
