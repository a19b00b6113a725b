package tinyjwt

// minSecretLength is the shortest HS256 secret Lint accepts without a warning.
// RFC 7518 asks for a key at least as long as the hash output.
const minSecretLength = 32

// LintWarning is one finding of Manager.Lint.
type LintWarning struct {
	Code    string
	Message string
}

// LintWarnings is the ordered result of Manager.Lint.
type LintWarnings []LintWarning

// Codes returns the warning codes in order.
func (ws LintWarnings) Codes() []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Code
	}
	return out
}

// Lint reports configuration that will fail at run time or is weaker than it
// should be. It never fails and does not include key material in messages.
func (m *Manager) Lint() LintWarnings {
	var ws LintWarnings
	if m == nil {
		return ws
	}

	if m.allowed[RS256] {
		ws = append(ws, LintWarning{
			Code:    "rs256_enabled",
			Message: "RS256 is enabled but every RS256 operation fails with ErrUnsupportedAlgorithm",
		})
	}
	if m.allowed[HS256] {
		switch {
		case !m.keys.secretSet:
			ws = append(ws, LintWarning{Code: "hs256_no_secret", Message: "HS256 is enabled without a shared secret"})
		case len(m.keys.secret) < minSecretLength:
			ws = append(ws, LintWarning{Code: "hs256_secret_short", Message: "HS256 shared secret is shorter than 32 bytes"})
		}
	}
	if m.allowed[ES256] && m.keys.private == nil {
		ws = append(ws, LintWarning{Code: "es256_no_private_key", Message: "ES256 is enabled without a private key"})
	}
	return ws
}
