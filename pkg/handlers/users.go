package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"videotube/pkg/apierr"
	"videotube/pkg/auth"
	"videotube/pkg/models"
	"videotube/pkg/respond"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

func (api *API) Register(c *gin.Context) error {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apierr.BadRequest("username, email and a password of at least 8 characters are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apierr.Upstream(err, "error creating user")
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Avatar:   req.Avatar,
		Password: string(hashed),
	}
	if err := api.store.CreateUser(c.Request.Context(), user); err != nil {
		return err
	}
	respond.Created(c, user, "user registered successfully")
	return nil
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (api *API) Login(c *gin.Context) error {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apierr.BadRequest("username and password are required")
	}

	user, err := api.store.UserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		return apierr.Unauthorized("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return apierr.Unauthorized("invalid username or password")
	}

	token, err := auth.GenerateJWT(api.cfg.JWTSecret, user.ID, user.Username, api.cfg.TokenTTL)
	if err != nil {
		return apierr.Upstream(err, "error generating token")
	}

	c.SetCookie("accessToken", token, int(api.cfg.TokenTTL.Seconds()), "/", "", false, true)
	respond.OK(c, gin.H{"user": user, "accessToken": token}, "login successful")
	return nil
}

func (api *API) Me(c *gin.Context) error {
	user, err := api.store.UserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		return err
	}
	respond.OK(c, user, "current user fetched successfully")
	return nil
}
