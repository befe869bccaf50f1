package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const oauthStateKey = "oauth_state"

// NewOAuthState stores a fresh random state in the session and returns it
func NewOAuthState(c *gin.Context) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %v", err)
	}
	state := hex.EncodeToString(buf)

	session := sessions.Default(c)
	session.Set(oauthStateKey, state)
	if err := session.Save(); err != nil {
		return "", fmt.Errorf("session store save failed: %v", err)
	}
	return state, nil
}

// ConsumeOAuthState checks a state echoed back by the client against the
// session and clears it. An empty state is accepted: the ID token itself is
// verified, and the frontend's sign-in button never passes through AuthCodeURL.
func ConsumeOAuthState(c *gin.Context, state string) bool {
	if state == "" {
		return true
	}
	session := sessions.Default(c)
	stored, _ := session.Get(oauthStateKey).(string)
	session.Delete(oauthStateKey)
	if err := session.Save(); err != nil {
		LogError("Failed to clear oauth state: %v", err)
	}
	return stored != "" && stored == state
}
