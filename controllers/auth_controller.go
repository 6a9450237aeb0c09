package controllers

import (
	"net/http"
	"time"

	"cafe-backend/middlewares"
	"cafe-backend/pkg/paging"
	"cafe-backend/pkg/resp"
	"cafe-backend/services"
	"cafe-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth         *services.AuthService
	TwoFactor    *services.TwoFactorService
	TokenTTL     time.Duration
	SecureCookie bool
}

func NewAuthController(auth *services.AuthService, twoFactor *services.TwoFactorService, ttl time.Duration, secure bool) *AuthController {
	return &AuthController{Auth: auth, TwoFactor: twoFactor, TokenTTL: ttl, SecureCookie: secure}
}

func (a *AuthController) setToken(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.TokenCookie, token, maxAge, "/", "", a.SecureCookie, true)
}

func (a *AuthController) login(c *gin.Context, username, password string, status int) {
	res, err := a.Auth.Login(c.Request.Context(), username, password, utils.SessionID(c), c.Request)
	if err != nil {
		resp.Error(c, err)
		return
	}
	a.setToken(c, res.Token, int(a.TokenTTL.Seconds()))
	c.JSON(status, gin.H{"ok": true, "data": res})
}

// POST /register/  logs the new customer in straight away
func (a *AuthController) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if _, err := a.Auth.Register(c.Request.Context(), in); err != nil {
		resp.Error(c, err)
		return
	}
	a.login(c, in.Username, in.Password, http.StatusCreated)
}

// GET /login/  where the two-factor gate sends unverified sessions
func (a *AuthController) LoginPage(c *gin.Context) {
	if !utils.IsAuthenticated(c) {
		resp.OK(c, gin.H{"authenticated": false, "otpRequired": false})
		return
	}
	need, err := a.TwoFactor.NeedsVerification(c.Request.Context(), utils.CurrentUserID(c), utils.SessionID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"authenticated": true, "otpRequired": need})
}

// POST /login/
func (a *AuthController) Login(c *gin.Context) {
	a.login(c, formValue(c, "username"), formValue(c, "password"), http.StatusOK)
}

// POST /login/verify/  second factor for the current session
func (a *AuthController) Verify(c *gin.Context) {
	if err := a.TwoFactor.Verify(c.Request.Context(), actorFrom(c), utils.SessionID(c), formValue(c, "code"), c.Request); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"verified": true})
}

// POST /logout/
func (a *AuthController) Logout(c *gin.Context) {
	if utils.IsAuthenticated(c) {
		if err := a.Auth.Logout(c.Request.Context(), actorFrom(c), utils.SessionID(c), c.Request); err != nil {
			resp.Error(c, err)
			return
		}
	}
	a.setToken(c, "", -1)
	resp.OK(c, gin.H{"loggedOut": true})
}

// GET /two_factor/setup/  issues a fresh secret to scan
func (a *AuthController) BeginSetup(c *gin.Context) {
	res, err := a.TwoFactor.BeginSetup(c.Request.Context(), actorFrom(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, res)
}

// POST /two_factor/setup/  code from the authenticator app
func (a *AuthController) ConfirmSetup(c *gin.Context) {
	if err := a.TwoFactor.ConfirmSetup(c.Request.Context(), actorFrom(c), utils.SessionID(c), formValue(c, "code"), c.Request); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"confirmed": true})
}

// GET /api/me
func (a *AuthController) Me(c *gin.Context) {
	user, err := a.Auth.Me(c.Request.Context(), actorFrom(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, user)
}

// PATCH /api/me
func (a *AuthController) UpdateMe(c *gin.Context) {
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	user, err := a.Auth.UpdateProfile(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, user)
}

// GET /api/profiles
func (a *AuthController) ListProfiles(c *gin.Context) {
	p := paging.FromQuery(c)
	profiles, total, err := a.Auth.ListProfiles(c.Request.Context(), actorFrom(c), p)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Page(c, profiles, paging.NewMeta(p, total))
}

// GET /api/profiles/:id
func (a *AuthController) GetProfile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	profile, err := a.Auth.GetProfile(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, profile)
}

// PATCH /api/profiles/:id
func (a *AuthController) UpdateProfile(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	profile, err := a.Auth.UpdateProfileByID(c.Request.Context(), actorFrom(c), id, in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, profile)
}
