// internal/api/v2/auth.go
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Preetham2004H/plant-ml/internal/datastore"
	"github.com/Preetham2004H/plant-ml/internal/errors"
	"github.com/Preetham2004H/plant-ml/internal/security"
)

// signupRequest is the body for POST /auth/signup.
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the body for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse carries the signed-in identity back to the client.
type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
}

// Signup handles POST /api/v2/auth/signup
func (c *Controller) Signup(ctx echo.Context) error {
	var req signupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.fail(ctx, http.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.fail(ctx, http.StatusBadRequest, "Name, email and password are required")
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return c.serverError(ctx, "signup", err)
	}

	user := &datastore.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := c.DS.CreateUser(user); err != nil {
		if errors.Is(err, datastore.ErrEmailExists) {
			return c.fail(ctx, http.StatusBadRequest, "Email already registered")
		}
		return c.serverError(ctx, "signup", err)
	}

	if err := c.Sessions.SignIn(ctx.Response(), ctx.Request(), user.ID, user.Name); err != nil {
		return c.serverError(ctx, "signup", err)
	}

	c.apiLogger.Info("User registered", "user_id", user.ID)
	return ctx.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "Signup successful",
		Name:    user.Name,
	})
}

// Login handles POST /api/v2/auth/login
func (c *Controller) Login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.fail(ctx, http.StatusBadRequest, "Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.fail(ctx, http.StatusBadRequest, "Email and password are required")
	}

	user, err := c.DS.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return c.fail(ctx, http.StatusUnauthorized, "Invalid email or password")
		}
		return c.serverError(ctx, "login", err)
	}
	if !security.CheckPassword(user.PasswordHash, req.Password) {
		return c.fail(ctx, http.StatusUnauthorized, "Invalid email or password")
	}

	if err := c.Sessions.SignIn(ctx.Response(), ctx.Request(), user.ID, user.Name); err != nil {
		return c.serverError(ctx, "login", err)
	}

	return ctx.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "Login successful",
		Name:    user.Name,
	})
}

// Logout handles POST /api/v2/auth/logout
func (c *Controller) Logout(ctx echo.Context) error {
	if err := c.Sessions.SignOut(ctx.Response(), ctx.Request()); err != nil {
		return c.serverError(ctx, "logout", err)
	}
	return ctx.JSON(http.StatusOK, statusResponse{Success: true, Message: "Logged out"})
}
