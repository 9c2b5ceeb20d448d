package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"gitlab.com/judgecore-2026.net/internal/config"
	auth2 "gitlab.com/judgecore-2026.net/internal/core/services/auth"
	"gitlab.com/judgecore-2026.net/internal/domain"
	"gitlab.com/judgecore-2026.net/internal/handlers/response"
)

type ServiceDependencies struct {
	GGAuthService    auth2.IAuthService
	LocalAuthService auth2.IAuthService
}

// GoogleUser decodes the Google userinfo API response.
type GoogleUser struct {
	ID    string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Handler struct {
	deps        *ServiceDependencies
	oauthConfig *oauth2.Config
}

func NewHandler(ggCfg *config.GGAuthConfig) *Handler {
	return &Handler{
		oauthConfig: &oauth2.Config{
			ClientID:     ggCfg.ClientID,
			ClientSecret: ggCfg.ClientSecret,
			RedirectURL:  ggCfg.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router, deps *ServiceDependencies) {
	h.deps = deps
	router.HandleFunc("/auth/login", h.LocalLogin).Methods("POST")
	router.HandleFunc("/auth/google", h.GoogleRedirect).Methods("GET")
	router.HandleFunc("/auth/callback", h.GoogleCallback).Methods("GET")
}

type localLoginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) LocalLogin(w http.ResponseWriter, r *http.Request) {
	var req localLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	token, err := h.deps.LocalAuthService.Login(r.Context(), &domain.Users{
		UserName:     req.UserName,
		PasswordHash: &req.Password,
		AuthProvider: string(domain.ProviderLocal),
	})
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid credentials", StatusCode: http.StatusUnauthorized})
		return
	}

	response.WriteSuccess(w, domain.LoginResponse{Token: token})
}

func (h *Handler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	url := h.oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		response.WriteError(w, response.ErrorMessage{Message: "missing code", StatusCode: http.StatusBadRequest})
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "code exchange failed", StatusCode: http.StatusUnauthorized})
		return
	}

	client := h.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "failed to fetch user info", StatusCode: http.StatusBadGateway})
		return
	}
	defer resp.Body.Close()

	var ggUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&ggUser); err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "failed to decode user info", StatusCode: http.StatusBadGateway})
		return
	}

	jwtToken, err := h.deps.GGAuthService.Login(r.Context(), &domain.Users{
		GoogleID:     &ggUser.ID,
		Email:        &ggUser.Email,
		AuthProvider: string(domain.ProviderGoogle),
	})
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "login failed", StatusCode: http.StatusUnauthorized})
		return
	}

	response.WriteSuccess(w, domain.LoginResponse{Token: jwtToken})
}
