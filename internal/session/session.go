// Package session provides Valkey-backed HTTP session management.
// Sessions are identified by a secure cookie scoped to the studio and kept
// as a Valkey hash with automatic TTL expiry. A dashboard session doubles
// as the state store of the Connect panel: which database is selected and
// whether the pooler toggle is on. Each selection updates one hash field.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "ds_session"

	// CookiePath limits the cookie to studio routes; docs pages never see it.
	CookiePath = "/project/"

	// DefaultTTL is how long an idle session lives in Valkey.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Hash fields of a stored session.
const (
	fieldProjectRef = "project_ref"
	fieldDatabaseID = "selected_database_id"
	fieldUsePooler  = "use_pooler_connection"
	fieldCreatedAt  = "created_at"
)

// ErrNoSession is returned when a write targets a request without a live
// session.
var ErrNoSession = errors.New("no session")

// Data is the session payload: the project the access key unlocked and
// the Connect panel selection.
type Data struct {
	ProjectRef          string
	SelectedDatabaseID  string
	UsePoolerConnection bool
	CreatedAt           time.Time
}

func (d *Data) fields() map[string]any {
	return map[string]any{
		fieldProjectRef: d.ProjectRef,
		fieldDatabaseID: d.SelectedDatabaseID,
		fieldUsePooler:  strconv.FormatBool(d.UsePoolerConnection),
		fieldCreatedAt:  d.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func parseFields(m map[string]string) (*Data, error) {
	d := &Data{
		ProjectRef:         m[fieldProjectRef],
		SelectedDatabaseID: m[fieldDatabaseID],
	}
	if v := m[fieldUsePooler]; v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("session field %s: %w", fieldUsePooler, err)
		}
		d.UsePoolerConnection = b
	}
	if v := m[fieldCreatedAt]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("session field %s: %w", fieldCreatedAt, err)
		}
		d.CreatedAt = t
	}
	return d, nil
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
// secure sets the Secure flag on the cookie and should be true behind TLS.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Create generates a new session, stores it in Valkey, and sets the
// session cookie on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()
	if err := s.write(ctx, keyPrefix+id, data.fields()); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     CookiePath,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get returns the session named by the request cookie, or nil when there
// is no cookie or the session has expired.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	m, err := s.client.HGetAll(ctx, keyPrefix+cookie.Value).Result()
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if len(m) == 0 {
		return nil, nil
	}
	return parseFields(m)
}

// Update replaces every field of the session and resets its TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	return s.set(ctx, r, data.fields())
}

// SelectDatabase stores the Connect panel's selected database.
func (s *Store) SelectDatabase(ctx context.Context, r *http.Request, identifier string) error {
	return s.set(ctx, r, map[string]any{fieldDatabaseID: identifier})
}

// SetUsePooler stores the Connect panel's pooler toggle.
func (s *Store) SetUsePooler(ctx context.Context, r *http.Request, on bool) error {
	return s.set(ctx, r, map[string]any{fieldUsePooler: strconv.FormatBool(on)})
}

// updateScript writes fields and resets the TTL only while the hash
// exists, so a session that expires mid-request is never brought back as
// a partial hash. KEYS[1] is the session key, ARGV[1] the TTL in
// milliseconds, the rest field/value pairs.
var updateScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV, 2))
redis.call("PEXPIRE", KEYS[1], ARGV[1])
return 1
`)

// set writes fields of an existing session. A session that expired is not
// recreated.
func (s *Store) set(ctx context.Context, r *http.Request, fields map[string]any) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return fmt.Errorf("session update: %w", ErrNoSession)
	}

	args := make([]any, 0, 1+2*len(fields))
	args = append(args, s.ttl.Milliseconds())
	for k, v := range fields {
		args = append(args, k, v)
	}

	ok, err := updateScript.Run(ctx, s.client, []string{keyPrefix + cookie.Value}, args...).Int()
	if err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	if ok == 0 {
		return fmt.Errorf("session update: %w", ErrNoSession)
	}
	return nil
}

// write creates a session hash with its TTL in one transaction.
func (s *Store) write(ctx context.Context, key string, fields map[string]any) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	return err
}

// Destroy removes the session from Valkey and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	if err := s.client.Del(ctx, keyPrefix+cookie.Value).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     CookiePath,
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
