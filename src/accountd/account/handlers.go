package account

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/castelan/accountd/src/common/errors"
	"github.com/castelan/accountd/src/common/logs"
)

// Package-level logger, must be initialized via SetLogger
var log *logs.Logger

// SetLogger sets the package-level logger
func SetLogger(l *logs.Logger) {
	log = l
}

// Config holds account handler configuration
type Config struct {
	Store      *Store
	Tokens     *TokenService
	BcryptCost int
}

// Handler handles account HTTP requests
type Handler struct {
	store      *Store
	tokens     *TokenService
	bcryptCost int
}

// NewHandler creates a new account handler
func NewHandler(cfg Config) *Handler {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Handler{
		store:      cfg.Store,
		tokens:     cfg.Tokens,
		bcryptCost: cost,
	}
}

// HandleSignup registers a new account with the provided credentials
// @Summary      Create an account
// @Description  Registers a new account with the provided email and password
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        body  body      SignupRequest  true  "Signup payload"
// @Success      201   {object}  SignupResponse
// @Failure      400   {object}  errors.Response
// @Failure      409   {object}  errors.Response
// @Failure      500   {object}  errors.Response
// @Router       /signup [post]
func (h *Handler) HandleSignup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ErrValidationFailed.WithCause(err).ToResponse())
		return
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	// The admin role can only be claimed while no administrator exists;
	// afterwards it is never self-assigned through signup.
	if role == RoleAdmin {
		hasAdmin, err := h.store.HasAdminUser()
		if err != nil {
			c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
			return
		}
		if hasAdmin {
			c.JSON(http.StatusConflict, errors.ErrAdminExists.ToResponse())
			return
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
		return
	}

	user := NewUser(req.Email, req.Name, string(passwordHash), role)
	if err := h.store.CreateUser(user); err != nil {
		c.JSON(errors.GetHTTPStatus(err), errors.NewResponse(err))
		return
	}

	if log != nil {
		log.Info("Account created", "user_id", user.ID, "email", user.Email, "role", user.Role)
	}

	// Only the identifier and email go back to the caller, never the hash.
	c.JSON(http.StatusCreated, SignupResponse{
		ID:    user.ID,
		Email: user.Email,
	})
}

// HandleLogin authenticates an account and issues an access token
// @Summary      Log in
// @Description  Authenticates an account by email and password and returns an access token
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Login payload"
// @Success      200   {object}  LoginResponse
// @Failure      400   {object}  errors.Response
// @Failure      401   {object}  errors.Response
// @Failure      500   {object}  errors.Response
// @Router       /login [post]
func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ErrValidationFailed.WithCause(err).ToResponse())
		return
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, errors.ErrAccountNotFound) {
			// Do not reveal whether the email is registered.
			c.JSON(http.StatusUnauthorized, errors.ErrInvalidCredentials.ToResponse())
			return
		}
		c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, errors.ErrInvalidPassword.ToResponse())
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
		return
	}

	if log != nil {
		log.Info("Login succeeded", "user_id", user.ID, "email", user.Email)
	}

	c.JSON(http.StatusOK, LoginResponse{AccessToken: token})
}

// HandleMe returns the account of the authenticated caller
// @Summary      Get current account
// @Description  Returns the account associated with the presented access token
// @Tags         Accounts
// @Produce      json
// @Success      200  {object}  Info
// @Failure      401  {object}  errors.Response
// @Failure      404  {object}  errors.Response
// @Router       /v1/me [get]
// @Security     BearerAuth
func (h *Handler) HandleMe(c *gin.Context) {
	claims, ok := c.Get("claims")
	if !ok {
		c.JSON(http.StatusUnauthorized, errors.ErrNoToken.ToResponse())
		return
	}

	tokenClaims := claims.(*Claims)
	user, err := h.store.GetUserByID(tokenClaims.UserID)
	if err != nil {
		c.JSON(errors.GetHTTPStatus(err), errors.NewResponse(err))
		return
	}

	c.JSON(http.StatusOK, user.Info())
}

// HandleListUsers returns all registered accounts
// @Summary      List accounts
// @Description  Returns all registered accounts
// @Tags         Accounts
// @Produce      json
// @Success      200  {object}  UserListResponse
// @Failure      403  {object}  errors.Response
// @Failure      500  {object}  errors.Response
// @Router       /v1/users [get]
// @Security     BearerAuth
func (h *Handler) HandleListUsers(c *gin.Context) {
	users, err := h.store.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
		return
	}

	infos := make([]Info, 0, len(users))
	for i := range users {
		infos = append(infos, users[i].Info())
	}

	c.JSON(http.StatusOK, UserListResponse{
		Count: len(infos),
		Users: infos,
	})
}

// HandleGetUser returns a single account by ID
// @Summary      Get an account
// @Description  Returns a single account by ID
// @Tags         Accounts
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  Info
// @Failure      403  {object}  errors.Response
// @Failure      404  {object}  errors.Response
// @Router       /v1/users/{id} [get]
// @Security     BearerAuth
func (h *Handler) HandleGetUser(c *gin.Context) {
	user, err := h.store.GetUserByID(c.Param("id"))
	if err != nil {
		c.JSON(errors.GetHTTPStatus(err), errors.NewResponse(err))
		return
	}

	c.JSON(http.StatusOK, user.Info())
}

// HandleUserStats returns aggregate account statistics
// @Summary      Account statistics
// @Description  Returns aggregate statistics about registered accounts
// @Tags         Accounts
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      403  {object}  errors.Response
// @Failure      500  {object}  errors.Response
// @Router       /v1/users/stats [get]
// @Security     BearerAuth
func (h *Handler) HandleUserStats(c *gin.Context) {
	count, err := h.store.CountUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
		return
	}

	c.JSON(http.StatusOK, StatsResponse{TotalUsers: count})
}
