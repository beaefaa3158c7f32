package controllers

import (
	"errors"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"golang.org/x/oauth2"

	"github.com/dmorell/atelier/internal/api/authenticator"
	"github.com/dmorell/atelier/internal/perrors"
	"github.com/dmorell/atelier/internal/services"
	"github.com/dmorell/atelier/internal/services/identity"
	"github.com/dmorell/atelier/internal/services/profile"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Optional display names, kept under their original field names.
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

type RegisterResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func RegisterAuthRoutes(r *router.Router, svc *services.Services, auth *authenticator.Authenticator) {
	// Login with email/password
	r.POST("/auth/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req LoginRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if err := validateEmailAndPassword(req.Email, req.Password); err != nil {
			writeFailure(ctx, stdCtx, err, "Invalid credentials")
			return
		}

		account, err := svc.Identity.Authenticate(stdCtx, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				writeError(ctx, stdCtx, "Invalid email or password", perrors.NewErrUnauthorized("Invalid email or password", err))
				return
			}
			writeError(ctx, stdCtx, errMessage(err, "Failed to sign in"), perrors.NewErrInternalServerError("Failed to sign in", err))
			return
		}

		// Role comes from the profile table, never from the token, so
		// admin-driven role changes apply without reissuing tokens.
		p, err := svc.Profile.GetByID(stdCtx, account.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to fetch user profile", perrors.NewErrInternalServerError("Failed to fetch user profile", err))
			return
		}

		token, err := auth.GenerateToken(account.ID, account.Email)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to generate token", perrors.NewErrInternalServerError("Failed to generate token", err))
			return
		}

		writeOK(ctx, stdCtx, "Login successful", LoginResponse{
			ID:    account.ID,
			Email: account.Email,
			Role:  string(p.Role),
			Token: token,
		})
	})

	// Register a new user; the role is always client.
	r.POST("/auth/register", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req RegisterRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if err := validateEmailAndPassword(req.Email, req.Password); err != nil {
			writeFailure(ctx, stdCtx, err, "Invalid credentials")
			return
		}

		exists, err := svc.Identity.EmailExists(stdCtx, req.Email)
		if err != nil {
			writeError(ctx, stdCtx, errMessage(err, "Failed to check email"), perrors.NewErrInternalServerError("Failed to check email", err))
			return
		}
		if exists {
			writeError(ctx, stdCtx, "Email is already registered", perrors.NewErrInvalidRequest("Email is already registered", errors.New("duplicate email")))
			return
		}

		account, err := svc.Identity.SignUp(stdCtx, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrEmailTaken) {
				writeError(ctx, stdCtx, "Email is already registered", perrors.NewErrInvalidRequest("Email is already registered", err))
				return
			}
			writeError(ctx, stdCtx, errMessage(err, "Failed to register user"), perrors.NewErrInternalServerError("Failed to register user", err))
			return
		}

		p, err := svc.Profile.Create(stdCtx, account.ID, req.Nombre, req.Apellido, profile.RoleClient)
		if err != nil {
			writeError(ctx, stdCtx, errMessage(err, "Failed to create user profile"), perrors.NewErrInternalServerError("Failed to create user profile", err))
			return
		}

		writeOK(ctx, stdCtx, "User registered successfully", RegisterResponse{
			ID:    account.ID,
			Email: account.Email,
			Role:  string(p.Role),
		})
	})

	// Admin login: same credential flow, but only superusers get in.
	r.POST("/admin/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		var req LoginRequest
		if err := parseBody(ctx, &req); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if err := validateEmailAndPassword(req.Email, req.Password); err != nil {
			writeFailure(ctx, stdCtx, err, "Invalid credentials")
			return
		}

		account, err := svc.Identity.Authenticate(stdCtx, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				writeError(ctx, stdCtx, "Invalid email or password", perrors.NewErrUnauthorized("Invalid email or password", err))
				return
			}
			writeError(ctx, stdCtx, errMessage(err, "Failed to sign in"), perrors.NewErrInternalServerError("Failed to sign in", err))
			return
		}

		p, err := svc.Profile.GetByID(stdCtx, account.ID)
		if err != nil || p.Role != profile.RoleSuperuser {
			writeError(ctx, stdCtx, "Access denied: you do not have admin privileges", perrors.NewErrForbidden("Access denied: you do not have admin privileges", errors.New("not a superuser")))
			return
		}

		token, err := auth.GenerateToken(account.ID, account.Email)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to generate token", perrors.NewErrInternalServerError("Failed to generate token", err))
			return
		}

		writeOK(ctx, stdCtx, "Admin login successful", LoginResponse{
			ID:    account.ID,
			Email: account.Email,
			Role:  string(p.Role),
			Token: token,
		})
	})

	if auth.Auth0Enabled() {
		registerAuth0Routes(r, auth)
	}
}

func registerAuth0Routes(r *router.Router, auth *authenticator.Authenticator) {
	r.GET("/auth/auth0/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		state := authenticator.OAuthState{
			CSRF:      uuid.NewString(),
			Redirect:  "http://localhost:3000",
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
		}

		encodedState, err := auth.GetSignedState(state)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create signed state", perrors.NewErrInternalServerError("Failed to create signed state", err))
			return
		}

		url := auth.AuthCodeURL(encodedState, oauth2.SetAuthURLParam("audience", auth.Audience()))
		ctx.Redirect(url, fasthttp.StatusTemporaryRedirect)
	})

	r.GET("/auth/auth0/callback", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		encodedState := ctx.URI().QueryArgs().Peek("state")
		code := ctx.URI().QueryArgs().Peek("code")

		if encodedState == nil || code == nil {
			writeError(ctx, stdCtx, "missing parameters", perrors.NewErrInvalidRequest("missing parameters", errors.New("missing parameters")))
			return
		}

		state, err := auth.VerifySignedState(string(encodedState))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to decode state", perrors.NewErrInvalidRequest("Failed to decode state", err))
			return
		}

		token, err := auth.Exchange(stdCtx, string(code))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to exchange token", perrors.NewErrInternalServerError("Failed to exchange token", err))
			return
		}

		if _, err := auth.VerifyIDToken(stdCtx, token); err != nil {
			writeError(ctx, stdCtx, "Failed to verify ID token", perrors.NewErrUnauthorized("Failed to verify ID token", err))
			return
		}

		var cookie fasthttp.Cookie
		cookie.SetKey("access_token")
		cookie.SetValue(token.AccessToken)
		cookie.SetPath("/")
		cookie.SetHTTPOnly(true)
		cookie.SetSecure(false) // MUST be true in production (HTTPS)
		cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
		cookie.SetExpire(time.Now().Add(1 * time.Hour))
		ctx.Response.Header.SetCookie(&cookie)

		ctx.Redirect(state.Redirect, fasthttp.StatusFound)
	})
}
