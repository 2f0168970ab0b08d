// Package auth implements argon2id password hashing and HTTP Basic Auth
// for the admin endpoints.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (OWASP recommended).
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// Verifier checks Basic Auth credentials against a username:hash secret
// file. A nil Verifier disables auth entirely (local development).
type Verifier struct {
	user   string
	hash   string
	logger *log.Logger
}

// LoadFile reads the secret file. A missing file returns a nil Verifier
// and logs a loud warning: the admin endpoints run unprotected.
func LoadFile(path string, logger *log.Logger) (*Verifier, error) {
	if logger == nil {
		logger = log.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("WARN: no auth file at %s, admin endpoints are UNPROTECTED (local development only)", path)
			return nil, nil
		}
		return nil, fmt.Errorf("read auth file: %w", err)
	}

	line := strings.TrimSpace(string(data))
	user, hash, ok := strings.Cut(line, ":")
	if !ok || user == "" || hash == "" {
		return nil, fmt.Errorf("invalid auth file format (expected username:hash)")
	}

	logger.Printf("basic auth enabled for admin endpoints (user: %s)", user)
	return &Verifier{user: user, hash: hash, logger: logger}, nil
}

// RequireAuth enforces Basic Auth on the wrapped handler. With a nil
// receiver the handler runs unprotected.
func (v *Verifier) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if v == nil {
			next(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(v.user)) == 1

		passMatch := false
		if ok && userMatch {
			var err error
			passMatch, err = VerifyPassword(pass, v.hash)
			if err != nil {
				v.logger.Printf("WARN: verify password: %v", err)
				passMatch = false
			}
		}

		if !ok || !userMatch || !passMatch {
			w.Header().Set("WWW-Authenticate", `Basic realm="Tech Event Tracker Admin"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			v.logger.Printf("WARN: failed auth attempt from %s (user: %s)", r.RemoteAddr, user)
			return
		}

		next(w, r)
	}
}

// HashPassword creates an argon2id hash in the
// $argon2id$v=19$m=…,t=…,p=…$salt$hash format.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads, b64Salt, b64Hash), nil
}

// VerifyPassword checks a password against an argon2id hash in constant
// time.
func VerifyPassword(password, hash string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash")
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	computed := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(decodedHash)))
	return subtle.ConstantTimeCompare(decodedHash, computed) == 1, nil
}

// CreateFile writes a username:hash secret file, read-only.
func CreateFile(path, username, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		// The file is written 0400, so it has to go before a rewrite.
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove existing auth file: %w", err)
		}
	}

	content := fmt.Sprintf("%s:%s\n", username, hash)
	if err := os.WriteFile(path, []byte(content), 0400); err != nil {
		return fmt.Errorf("write auth file: %w", err)
	}
	return nil
}
