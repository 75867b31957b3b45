package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/colonyconnect/colony-api/internal/auth"
	"github.com/colonyconnect/colony-api/internal/config"
	"github.com/colonyconnect/colony-api/internal/domain/user"
	"github.com/colonyconnect/colony-api/internal/logger"
	"github.com/colonyconnect/colony-api/internal/middleware"
	"github.com/colonyconnect/colony-api/internal/response"
	"github.com/colonyconnect/colony-api/internal/storage/postgres"
	"github.com/colonyconnect/colony-api/internal/validation"
)

// UserHandler serves registration, login, profile and admin user management
type UserHandler struct {
	userRepo      postgres.UserRepository
	complaintRepo postgres.ComplaintRepository
	pollRepo      postgres.PollRepository
	cfg           *config.Config
	log           *log.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userRepo postgres.UserRepository, complaintRepo postgres.ComplaintRepository, pollRepo postgres.PollRepository, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userRepo:      userRepo,
		complaintRepo: complaintRepo,
		pollRepo:      pollRepo,
		cfg:           cfg,
		log:           logger.Handler("user"),
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	PhoneNo  string `json:"phoneno" binding:"required"`
	Password string `json:"password" binding:"required"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	PhoneNo  string `json:"phoneno" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminCreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	PhoneNo  string `json:"phoneno" binding:"required"`
	Password string `json:"password" binding:"required"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

type AdminUpdateUserRequest struct {
	Name     string `json:"name"`
	PhoneNo  string `json:"phoneno"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

// Register handles POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var userValidation validation.UserValidation
	if err := userValidation.ValidateUserName(req.Name); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := userValidation.ValidatePassword(req.Password); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := validation.ValidatePhoneNumber(req.PhoneNo); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := user.New(req.Name, req.PhoneNo, req.Password, req.Address, user.RoleUser)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userRepo.Create(u); err != nil {
		if errors.Is(err, postgres.ErrPhoneTaken) {
			response.BadRequest(c, "Phone number already registered")
			return
		}
		h.log.Error("failed to create user", "error", err)
		response.Internal(c, "Failed to register user")
		return
	}

	token, err := auth.NewToken(u, h.cfg.JWT.Secret, h.cfg.JWT.TTL)
	if err != nil {
		h.log.Error("failed to issue token", "user_id", u.ID, "error", err)
		response.Internal(c, "Failed to register user")
		return
	}

	h.log.Info("user registered", "user_id", u.ID)
	data := u.Sanitized()
	data["token"] = token
	response.Success(c, http.StatusCreated, "User registered successfully", data)
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "phoneno and password are required")
		return
	}

	u, err := h.userRepo.GetByPhone(req.PhoneNo)
	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			response.Unauthorized(c, "Invalid phone number or password")
			return
		}
		h.log.Error("failed to look up user", "error", err)
		response.Internal(c, "Failed to log in")
		return
	}

	if !u.CheckPassword(req.Password) {
		h.log.Warn("invalid password attempt", "user_id", u.ID)
		response.Unauthorized(c, "Invalid phone number or password")
		return
	}

	token, err := auth.NewToken(u, h.cfg.JWT.Secret, h.cfg.JWT.TTL)
	if err != nil {
		h.log.Error("failed to issue token", "user_id", u.ID, "error", err)
		response.Internal(c, "Failed to log in")
		return
	}

	h.log.Info("user logged in", "user_id", u.ID, "role", u.Role)
	data := u.Sanitized()
	data["token"] = token
	response.Success(c, http.StatusOK, "Login successful", data)
}

// Profile handles GET /api/users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	response.Success(c, http.StatusOK, "", u.Sanitized())
}

// ListUsers handles GET /api/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.GetAll()
	if err != nil {
		h.log.Error("failed to list users", "error", err)
		response.Internal(c, "Failed to fetch users")
		return
	}

	sanitized := make([]map[string]interface{}, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitized())
	}

	response.Success(c, http.StatusOK, "", sanitized)
}

// CreateUser handles POST /api/admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	role := user.RoleUser
	if req.Role != "" {
		role = user.Role(req.Role)
		if !role.Valid() {
			response.BadRequest(c, "Invalid role: "+req.Role)
			return
		}
	}

	u, err := user.New(req.Name, req.PhoneNo, req.Password, req.Address, role)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userRepo.Create(u); err != nil {
		if errors.Is(err, postgres.ErrPhoneTaken) {
			response.BadRequest(c, "Phone number already registered")
			return
		}
		h.log.Error("failed to create user", "error", err)
		response.Internal(c, "Failed to create user")
		return
	}

	h.log.Info("user created by admin", "user_id", u.ID, "role", u.Role)
	response.Success(c, http.StatusCreated, "User created successfully", u.Sanitized())
}

// UpdateUser handles PUT /api/admin/users/:user_id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("user_id")
	if err := validation.ValidateUUID(userID, "user_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		h.log.Error("failed to fetch user", "user_id", userID, "error", err)
		response.Internal(c, "Failed to update user")
		return
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.PhoneNo != "" {
		if err := validation.ValidatePhoneNumber(req.PhoneNo); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		u.PhoneNo = req.PhoneNo
	}
	if req.Address != "" {
		u.Address = req.Address
	}
	if req.Role != "" {
		role := user.Role(req.Role)
		if !role.Valid() {
			response.BadRequest(c, "Invalid role: "+req.Role)
			return
		}
		u.Role = role
	}
	if req.Password != "" {
		if err := u.SetPassword(req.Password); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	if err := h.userRepo.Update(u); err != nil {
		if errors.Is(err, postgres.ErrPhoneTaken) {
			response.BadRequest(c, "Phone number already registered")
			return
		}
		h.log.Error("failed to update user", "user_id", userID, "error", err)
		response.Internal(c, "Failed to update user")
		return
	}

	h.log.Info("user updated by admin", "user_id", userID)
	response.Success(c, http.StatusOK, "User updated successfully", u.Sanitized())
}

// DeleteUser handles DELETE /api/admin/users/:user_id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Not authorized")
		return
	}

	userID := c.Param("user_id")
	if err := validation.ValidateUUID(userID, "user_id"); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if admin.ID.String() == userID {
		response.BadRequest(c, "You cannot delete your own account")
		return
	}

	if err := h.userRepo.Delete(userID); err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		h.log.Error("failed to delete user", "user_id", userID, "error", err)
		response.Internal(c, "Failed to delete user")
		return
	}

	h.log.Info("user deleted by admin", "user_id", userID, "admin_id", admin.ID)
	response.Success(c, http.StatusOK, "User deleted successfully", nil)
}

// Dashboard handles GET /api/admin/dashboard
func (h *UserHandler) Dashboard(c *gin.Context) {
	totalUsers, err := h.userRepo.Count()
	if err != nil {
		h.log.Error("failed to count users", "error", err)
		response.Internal(c, "Failed to load dashboard")
		return
	}

	admins, err := h.userRepo.CountByRole(user.RoleAdmin)
	if err != nil {
		h.log.Error("failed to count admins", "error", err)
		response.Internal(c, "Failed to load dashboard")
		return
	}

	newThisWeek, err := h.userRepo.CountCreatedSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		h.log.Error("failed to count recent users", "error", err)
		response.Internal(c, "Failed to load dashboard")
		return
	}

	complaintCounts, err := h.complaintRepo.CountByStatus()
	if err != nil {
		h.log.Error("failed to count complaints", "error", err)
		response.Internal(c, "Failed to load dashboard")
		return
	}

	now := time.Now()
	activePolls, err := h.pollRepo.ListActive(now)
	if err != nil {
		h.log.Error("failed to list active polls", "error", err)
		response.Internal(c, "Failed to load dashboard")
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"users": gin.H{
			"total":       totalUsers,
			"admins":      admins,
			"newThisWeek": newThisWeek,
		},
		"complaints": complaintCounts,
		"polls": gin.H{
			"active": len(activePolls),
		},
	})
}
