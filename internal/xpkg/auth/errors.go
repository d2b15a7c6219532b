package auth

import "errors"

var (
	ErrUserNotFound    = errors.New("auth/user-not-found")
	ErrWrongPassword   = errors.New("auth/wrong-password")
	ErrEmailInUse      = errors.New("auth/email-already-in-use")
	ErrWeakPassword    = errors.New("auth/weak-password")
	ErrInvalidEmail    = errors.New("auth/invalid-email")
	ErrTooManyRequests = errors.New("auth/too-many-requests")

	ErrMissingToken = errors.New("authentication required")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrForbidden    = errors.New("Accès refusé")
)

const fallbackMessage = "Une erreur est survenue"

var messages = map[error]string{
	ErrUserNotFound:    "Aucun compte trouvé avec cette adresse email",
	ErrWrongPassword:   "Mot de passe incorrect",
	ErrEmailInUse:      "Cette adresse email est déjà utilisée",
	ErrWeakPassword:    "Le mot de passe est trop faible",
	ErrInvalidEmail:    "Adresse email invalide",
	ErrTooManyRequests: "Trop de tentatives. Veuillez réessayer plus tard",
}

// Message renders an auth failure for the customer.
func Message(err error) string {
	for target, msg := range messages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return fallbackMessage
}
