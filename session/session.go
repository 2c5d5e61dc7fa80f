/*
Package session is the identity collaborator for the register.

PURPOSE:
  Tracks who is logged in and manages the register's accounts. The ledger
  core consumes only the resulting Actor (identifier plus role) to stamp
  authorship fields; authentication itself lives entirely here.

ACCOUNTS:
  Users persist in the same store as the ledger. Credentials are hashed with
  PBKDF2-SHA256 (password.go); a signed bearer token represents the session.
  First boot seeds the default admin account so a fresh register is usable
  immediately.

SEE ALSO:
  - password.go: hashing and verification
  - token.go: token issue/verify
*/
package session

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/academia/caixa/ledger"
)

const seedAdminUser = "admin"
const seedAdminPass = "1234"

// Manager owns the account list and issues session tokens.
type Manager struct {
	mu     sync.Mutex
	store  ledger.Store
	secret []byte
	users  map[string]ledger.User // keyed by lower-cased username
}

// NewManager loads accounts from the store and seeds the default admin when
// no account exists yet.
func NewManager(ctx context.Context, store ledger.Store, secret []byte) (*Manager, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		store:  store,
		secret: secret,
		users:  make(map[string]ledger.User, len(snap.Users)),
	}
	for _, u := range snap.Users {
		m.users[userKey(u.Username)] = u
	}

	if len(m.users) == 0 {
		hash, err := HashPassword(seedAdminPass)
		if err != nil {
			return nil, err
		}
		admin := ledger.User{
			Username:       seedAdminUser,
			CredentialHash: hash,
			Role:           ledger.RoleAdmin,
		}
		if err := store.SaveUser(ctx, admin); err != nil {
			return nil, err
		}
		m.users[userKey(seedAdminUser)] = admin
	}
	return m, nil
}

// Login checks credentials and returns the actor plus a session token.
// Username matching is case-insensitive after trimming, like the register
// has always behaved.
func (m *Manager) Login(username, password string) (ledger.Actor, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ledger.Actor{}, "", &ledger.ValidationError{Field: "credentials", Message: "username and password are required"}
	}

	m.mu.Lock()
	u, ok := m.users[userKey(username)]
	m.mu.Unlock()

	if !ok || !CheckPassword(password, u.CredentialHash) {
		return ledger.Actor{}, "", ErrBadCredentials
	}

	actor := ledger.Actor{Username: u.Username, Role: u.Role}
	token, err := m.issueToken(actor)
	if err != nil {
		return ledger.Actor{}, "", err
	}
	return actor, token, nil
}

// Verify resolves a bearer token back to its actor. The account must still
// exist; tokens of removed users stop working immediately.
func (m *Manager) Verify(token string) (ledger.Actor, error) {
	username, err := m.parseToken(token)
	if err != nil {
		return ledger.Actor{}, err
	}

	m.mu.Lock()
	u, ok := m.users[userKey(username)]
	m.mu.Unlock()

	if !ok {
		return ledger.Actor{}, ErrBadToken
	}
	return ledger.Actor{Username: u.Username, Role: u.Role}, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (m *Manager) ChangePassword(ctx context.Context, actor ledger.Actor, oldPass, newPass string) error {
	if len(newPass) < 4 {
		return &ledger.ValidationError{Field: "password", Message: "must have at least 4 characters"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userKey(actor.Username)]
	if !ok {
		return ledger.ErrNotFound
	}
	if !CheckPassword(oldPass, u.CredentialHash) {
		return &ledger.ValidationError{Field: "password", Message: "current password is incorrect"}
	}

	hash, err := HashPassword(newPass)
	if err != nil {
		return err
	}
	u.CredentialHash = hash
	if err := m.store.SaveUser(ctx, u); err != nil {
		return err
	}
	m.users[userKey(u.Username)] = u
	return nil
}

// CreateUser adds an account. Duplicate usernames (case-insensitive) are a
// ValidationError. Role gating happens at the API boundary.
func (m *Manager) CreateUser(ctx context.Context, username, password string, role ledger.Role) (ledger.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return ledger.User{}, &ledger.ValidationError{Field: "username", Message: "must have at least 3 characters"}
	}
	if len(password) < 4 {
		return ledger.User{}, &ledger.ValidationError{Field: "password", Message: "must have at least 4 characters"}
	}
	if role != ledger.RoleAdmin && role != ledger.RoleOperator {
		return ledger.User{}, &ledger.ValidationError{Field: "role", Message: "unknown role"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[userKey(username)]; exists {
		return ledger.User{}, &ledger.ValidationError{Field: "username", Message: "already exists"}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return ledger.User{}, err
	}
	u := ledger.User{Username: username, CredentialHash: hash, Role: role}
	if err := m.store.SaveUser(ctx, u); err != nil {
		return ledger.User{}, err
	}
	m.users[userKey(username)] = u
	return u, nil
}

// DeleteUser removes an account. The seeded admin is protected; deleting an
// unknown user is ErrNotFound.
func (m *Manager) DeleteUser(ctx context.Context, username string) error {
	if userKey(username) == seedAdminUser {
		return &ledger.ValidationError{Field: "username", Message: "the admin account cannot be removed"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userKey(username)]
	if !ok {
		return ledger.ErrNotFound
	}
	if err := m.store.DeleteUser(ctx, u.Username); err != nil {
		return err
	}
	delete(m.users, userKey(username))
	return nil
}

// Users lists all accounts without credential hashes.
func (m *Manager) Users() []ledger.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ledger.User, 0, len(m.users))
	for _, u := range m.users {
		u.CredentialHash = ""
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func userKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
