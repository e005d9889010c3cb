package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/anonto42/yatube/internal/forms"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const msgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	userRepository repositories.UserRepository
	sessions       *middleware.SessionManager
	firebaseAuth   middleware.TokenVerifier
	validator      forms.Validator
	logger         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, which
// disables Firebase login.
func NewAuthHandler(
	userRepo repositories.UserRepository,
	sessions *middleware.SessionManager,
	firebaseAuth middleware.TokenVerifier,
	v forms.Validator,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		sessions:       sessions,
		firebaseAuth:   firebaseAuth,
		validator:      v,
		logger:         logger,
	}
}

// RegisterAuthRoutes registers authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.GET("/signup/", h.Signup)
	g.POST("/signup/", h.Signup)
	g.GET("/login/", h.Login)
	g.POST("/login/", h.Login)
	g.GET("/logout/", h.Logout)
	if h.firebaseAuth != nil {
		g.POST("/firebase/", h.FirebaseLogin)
	}
}

// Signup creates a local account and logs it in
func (h *AuthHandler) Signup(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return renderSignup(c, forms.SignupInput{}, nil)
	}

	var in forms.SignupInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}

	ctx := c.Request().Context()
	res, err := forms.CleanSignup(ctx, h.validator, h.userRepository, in)
	if err != nil {
		return err
	}
	if !res.Valid() {
		return renderSignup(c, res.Value, res.Errors)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(res.Value.Password1), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:  res.Value.Username,
		Email:     res.Value.Email,
		FirstName: res.Value.FirstName,
		LastName:  res.Value.LastName,
		Password:  string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if err := h.sessions.Login(c, user); err != nil {
		return err
	}

	h.logger.Info("user signed up", zap.String("username", user.Username))
	return c.Redirect(http.StatusFound, "/")
}

// Login checks a username and password and starts a session
func (h *AuthHandler) Login(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return renderLogin(c, forms.LoginInput{}, nil, c.QueryParam("next"))
	}

	var in forms.LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	next := c.FormValue("next")

	res := forms.CleanLogin(h.validator, in)
	if !res.Valid() {
		return renderLogin(c, res.Value, res.Errors, next)
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), res.Value.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load user: %w", err)
	}
	if user == nil || user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(res.Value.Password)) != nil {
		errs := forms.FieldErrors{}
		errs.Add(forms.NonFieldErrors, msgInvalidLogin)
		return renderLogin(c, res.Value, errs, next)
	}

	if err := h.sessions.Login(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, middleware.SafeNext(next, "/"))
}

// Logout ends the session
func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Logout(c)
	return c.Render(http.StatusOK, "users/logged_out.html", echo.Map{})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" form:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and starts a session for the
// linked account, linking by email or creating one when needed.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "idToken is required")
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	if errors.Is(err, gorm.ErrRecordNotFound) && email != "" {
		user, err = h.userRepository.GetUserByEmail(ctx, email)
		if err == nil {
			uid := token.UID
			user.FirebaseUID = &uid
			if err := h.userRepository.UpdateUser(ctx, user); err != nil {
				return fmt.Errorf("link firebase account: %w", err)
			}
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = h.createFirebaseUser(ctx, token.UID, email, name)
	}
	if err != nil {
		return fmt.Errorf("firebase login: %w", err)
	}

	if err := h.sessions.Login(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"username": user.Username})
}

var usernameUnsafe = regexp.MustCompile(`[^\w.@+-]`)

func (h *AuthHandler) createFirebaseUser(ctx context.Context, uid, email, name string) (*models.User, error) {
	base := uid
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}
	base = models.Truncate(usernameUnsafe.ReplaceAllString(base, ""), 140)
	if base == "" {
		base = "user"
	}

	username := base
	for n := 2; ; n++ {
		_, err := h.userRepository.GetUserByUsername(ctx, username)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		username = base + strconv.Itoa(n)
	}

	first, last, _ := strings.Cut(name, " ")
	fuid := uid
	user := &models.User{
		Username:    username,
		Email:       email,
		FirstName:   first,
		LastName:    last,
		FirebaseUID: &fuid,
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	h.logger.Info("user created from firebase", zap.String("username", username))
	return user, nil
}

func renderSignup(c echo.Context, in forms.SignupInput, errs forms.FieldErrors) error {
	in.Password1, in.Password2 = "", ""
	return c.Render(http.StatusOK, "users/signup.html", echo.Map{"form": in, "errors": errs})
}

func renderLogin(c echo.Context, in forms.LoginInput, errs forms.FieldErrors, next string) error {
	in.Password = ""
	return c.Render(http.StatusOK, "users/login.html", echo.Map{
		"form":   in,
		"errors": errs,
		"next":   middleware.SafeNext(next, ""),
	})
}
