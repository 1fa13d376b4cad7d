// Package authprovider is the credential side of the remote port:
// bcrypt-checked accounts in Postgres and HS256 session tokens.
package authprovider

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-client/internal/models"
	"github.com/BruksfildServices01/barber-client/internal/port"
)

// Provider messages. The session layer matches on these texts.
const (
	msgInvalidCredentials = "Invalid login credentials"
	msgEmailNotConfirmed  = "Email not confirmed"
	msgAlreadyRegistered  = "User already registered"
	msgWeakPassword       = "Password should be at least 6 characters."
)

const minPasswordLen = 6

// SessionStore persists the current session and revoked token ids.
type SessionStore interface {
	Save(ctx context.Context, sess *port.Session, now time.Time) error
	Load(ctx context.Context) (*port.Session, error)
	Clear(ctx context.Context) error
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Options struct {
	Secret                   string
	TTL                      time.Duration
	RequireEmailConfirmation bool
}

type Provider struct {
	db      *gorm.DB
	store   SessionStore
	secret  []byte
	ttl     time.Duration
	confirm bool
	log     *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	current *port.Session
	subs    map[int]chan *port.Session
	nextID  int
}

func New(db *gorm.DB, store SessionStore, opts Options, log *zap.Logger) *Provider {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Provider{
		db:      db,
		store:   store,
		secret:  []byte(opts.Secret),
		ttl:     ttl,
		confirm: opts.RequireEmailConfirmation,
		log:     log.Named("auth"),
		now:     time.Now,
		subs:    make(map[int]chan *port.Session),
	}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*port.Session, error) {
	var account models.Account
	err := p.db.WithContext(ctx).
		Where("email = ?", email).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &port.AuthError{Message: msgInvalidCredentials}
	}
	if err != nil {
		return nil, port.Transport("find account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, &port.AuthError{Message: msgInvalidCredentials}
	}

	if p.confirm && !account.Confirmed {
		return nil, &port.AuthError{Message: msgEmailNotConfirmed}
	}

	var profile models.Profile
	role := string(port.RoleClient)
	if err := p.db.WithContext(ctx).Select("role").Where("id = ?", account.ID).First(&profile).Error; err == nil && profile.Role != "" {
		role = profile.Role
	}

	sess, err := p.issue(account.ID, account.Email, role)
	if err != nil {
		return nil, err
	}

	if err := p.store.Save(ctx, sess, p.now()); err != nil {
		p.log.Warn("session not persisted", zap.Error(err))
	}

	p.setCurrent(sess)
	return copySession(sess), nil
}

// SignUp creates the account and its profile in one transaction. It does
// not sign in.
func (p *Provider) SignUp(ctx context.Context, seed port.ProfileSeed) (*port.Account, error) {
	if len(seed.Password) < minPasswordLen {
		return nil, &port.AuthError{Message: msgWeakPassword}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, port.Transport("hash password", err)
	}

	account := models.Account{
		ID:           uuid.NewString(),
		Email:        seed.Email,
		PasswordHash: string(hashed),
		Confirmed:    !p.confirm,
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{
			ID:    account.ID,
			Name:  seed.Name,
			Email: seed.Email,
			Role:  string(port.RoleClient),
		}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &port.AuthError{Message: msgAlreadyRegistered}
		}
		return nil, port.Transport("create account", err)
	}

	p.log.Info("account registered", zap.String("account_id", account.ID))
	return &port.Account{ID: account.ID, Email: account.Email}, nil
}

// SignOut revokes the current token and forgets it locally, even when
// the cache is unreachable.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	sess := p.current
	p.mu.Unlock()

	var errs []error
	if sess != nil {
		if claims, err := p.parse(sess.Token); err == nil && claims.ExpiresAt != nil {
			ttl := claims.ExpiresAt.Sub(p.now())
			if err := p.store.Revoke(ctx, claims.ID, ttl); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := p.store.Clear(ctx); err != nil {
		errs = append(errs, err)
	}

	p.setCurrent(nil)

	if err := errors.Join(errs...); err != nil {
		return port.Transport("sign out", err)
	}
	return nil
}

// CurrentSession restores the persisted session on first use. Expired or
// revoked tokens are dropped.
func (p *Provider) CurrentSession(ctx context.Context) (*port.Session, error) {
	p.mu.Lock()
	if p.current != nil {
		sess := copySession(p.current)
		p.mu.Unlock()
		return sess, nil
	}
	p.mu.Unlock()

	sess, err := p.store.Load(ctx)
	if err != nil {
		return nil, port.Transport("load session", err)
	}
	if sess == nil {
		return nil, nil
	}

	if !p.valid(ctx, sess.Token) {
		if err := p.store.Clear(ctx); err != nil {
			p.log.Warn("stale session not cleared", zap.Error(err))
		}
		return nil, nil
	}

	p.mu.Lock()
	if p.current == nil {
		p.current = copySession(sess)
	}
	p.mu.Unlock()
	return sess, nil
}

// Revalidate checks the current token again and announces a sign-out
// when it expired or was revoked elsewhere.
func (p *Provider) Revalidate(ctx context.Context) (*port.Session, error) {
	p.mu.Lock()
	sess := p.current
	p.mu.Unlock()

	if sess == nil {
		return nil, nil
	}
	if p.valid(ctx, sess.Token) {
		return copySession(sess), nil
	}

	p.log.Info("session no longer valid", zap.String("account_id", sess.AccountID))
	if err := p.store.Clear(ctx); err != nil {
		p.log.Warn("stale session not cleared", zap.Error(err))
	}
	p.setCurrent(nil)
	return nil, nil
}

// Subscribe returns a stream of session changes and the function that
// closes it.
func (p *Provider) Subscribe() (<-chan *port.Session, func()) {
	ch := make(chan *port.Session, 8)

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = ch
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			close(ch)
			p.mu.Unlock()
		})
	}
}

func (p *Provider) setCurrent(sess *port.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = copySession(sess)
	for id, ch := range p.subs {
		select {
		case ch <- copySession(sess):
		default:
			p.log.Warn("session subscriber lagging, change dropped", zap.Int("subscriber", id))
		}
	}
}

func (p *Provider) valid(ctx context.Context, token string) bool {
	claims, err := p.parse(token)
	if err != nil {
		return false
	}
	revoked, err := p.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Cache down: trust the signature.
		p.log.Warn("revocation check failed", zap.Error(err))
		return true
	}
	return !revoked
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func copySession(s *port.Session) *port.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
