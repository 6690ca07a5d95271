package cart

import (
	"net/http"

	"github.com/google/uuid"
)

// handleCartCookie returns the cart key from the cartid cookie, minting a new
// uuid and setting the cookie when the visitor has no cart yet.
func handleCartCookie(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie("cartid")
	if err == nil && c.Value != "" {
		if _, parseErr := uuid.Parse(c.Value); parseErr == nil {
			return c.Value
		}
	}
	cartId := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "cartid",
		Value:    cartId,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
	return cartId
}
