package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/ayush/subtrack/internal/api"
	"github.com/ayush/subtrack/internal/apperr"
	"github.com/ayush/subtrack/internal/models"
)

const stateCookie = "oauth_state"

// UserStore defines the interface for user persistence used by the auth flow.
type UserStore interface {
	UpsertGitHubUser(ctx context.Context, gh models.GitHubUser) (*models.User, error)
}

// Handler holds the GitHub OAuth login handlers.
type Handler struct {
	users    UserStore
	sessions *SessionStore
	oauth    *oauth2.Config
	apiBase  string
}

func NewHandler(users UserStore, sessions *SessionStore, clientID, clientSecret, redirectURL string) *Handler {
	return &Handler{
		users:    users,
		sessions: sessions,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"user:email"},
			Endpoint:     githuboauth.Endpoint,
		},
		apiBase: "https://api.github.com",
	}
}

// GitHubLogin starts the OAuth flow: store a state nonce in a short-lived
// cookie and redirect to GitHub's authorize page.
func (h *Handler) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// GitHubCallback completes the OAuth flow: verify state, exchange the code,
// fetch the GitHub user, upsert it, and open a session. Flow failures
// redirect back to / rather than rendering an error page.
func (h *Handler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	tok, err := h.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	gh, err := h.fetchGitHubUser(r.Context(), tok)
	if err != nil {
		api.Error(w, apperr.Wrap(apperr.Internal, "", err))
		return
	}

	user, err := h.users.UpsertGitHubUser(r.Context(), gh)
	if err != nil {
		api.Error(w, err)
		return
	}

	sid, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		api.Error(w, apperr.Wrap(apperr.Internal, "", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})

	api.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
	})
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := TokenFromRequest(r); token != "" {
		if err := h.sessions.Delete(r.Context(), token); err != nil {
			api.JSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to log out"})
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	api.JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// fetchGitHubUser loads the authenticated user from the GitHub API, falling
// back to the primary address from /user/emails when the profile email is
// private.
func (h *Handler) fetchGitHubUser(ctx context.Context, tok *oauth2.Token) (models.GitHubUser, error) {
	client := h.oauth.Client(ctx, tok)

	var gh models.GitHubUser
	if err := getJSON(client, h.apiBase+"/user", &gh); err != nil {
		return gh, fmt.Errorf("github user: %w", err)
	}

	if gh.Email == "" {
		var emails []struct {
			Email   string `json:"email"`
			Primary bool   `json:"primary"`
		}
		if err := getJSON(client, h.apiBase+"/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary {
					gh.Email = e.Email
					break
				}
			}
		}
	}
	return gh, nil
}

func getJSON(client *http.Client, url string, v interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
