// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package auth owns the in-memory session of the vault: the two-tier lock
// state machine (app lock plus the journal sub-lock), the derived keys, and
// the idle-activity timer that forces a re-lock.
//
// Keys exist only in volatile memory. A process restart always starts
// locked; nothing in this package ever persists key material or a
// plaintext secret.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/monad-vault/internal/crypto"
	"github.com/MKhiriev/monad-vault/internal/logger"
	"github.com/MKhiriev/monad-vault/internal/store"
	"github.com/MKhiriev/monad-vault/models"
)

// authRecordKey is the KV entry holding the persisted [models.AuthRecord].
const authRecordKey = "auth_record"

// journalInfoPrefix namespaces the journal sub-key derivation. The passcode
// is embedded after the prefix so changing the passcode changes the derived
// key even though the parent key is unchanged.
const journalInfoPrefix = "journal:"

// Defaults applied when [Options] fields are zero.
const (
	DefaultIdleTimeout       = 15 * time.Minute
	DefaultMinPasswordLength = 12
)

// Options tunes a [Service].
type Options struct {
	// IdleTimeout is how long the session may sit without recorded
	// activity before it auto-locks.
	IdleTimeout time.Duration

	// MinPasswordLength is the SetPassword policy floor.
	MinPasswordLength int
}

// session is the volatile state. Invariants: a key is non-nil exactly when
// its unlocked flag is true, and journalKey != nil implies appKey != nil.
type session struct {
	appKey          *crypto.Key
	journalKey      *crypto.Key
	unlocked        bool
	journalUnlocked bool
	hasPassword     bool
	lastActivity    time.Time
}

// State is a read-only snapshot of the session, safe to hand to listeners.
type State struct {
	HasPassword     bool
	Unlocked        bool
	JournalUnlocked bool
	LastActivity    time.Time
	IdleTimeout     time.Duration
}

// Service is the auth state machine. Construct it with [NewService] and
// hold an explicit reference; there is no package-level singleton.
type Service struct {
	kv       store.KVStore
	keychain crypto.KeyChainService
	log      *logger.Logger

	mu          sync.Mutex
	session     session
	idleTimeout time.Duration
	idleTimer   *time.Timer
	minPassword int

	listeners      map[int]func()
	nextListenerID int
}

// NewService constructs a locked [Service] over the given KV store and
// keychain.
func NewService(kv store.KVStore, keychain crypto.KeyChainService, log *logger.Logger, opts Options) *Service {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = DefaultMinPasswordLength
	}

	return &Service{
		kv:          kv,
		keychain:    keychain,
		log:         log,
		idleTimeout: opts.IdleTimeout,
		minPassword: opts.MinPasswordLength,
		listeners:   make(map[int]func()),
	}
}

// Initialize reads the persisted auth record and reports whether a password
// exists. The session is always reset to fully locked regardless of any
// stale state, because keys never survive a process restart.
func (s *Service) Initialize(ctx context.Context) (hasPassword bool, err error) {
	_, err = s.loadRecord(ctx)
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
		hasPassword = false
	case err != nil:
		return false, err
	default:
		hasPassword = true
	}

	s.mu.Lock()
	s.clearSessionLocked()
	s.session.hasPassword = hasPassword
	s.mu.Unlock()
	s.notify()

	s.log.Info().Bool("has_password", hasPassword).Msg("auth initialized")
	return hasPassword, nil
}

// SetPassword sets the master password during setup, derives the app key,
// persists a fresh auth record (hash, salt, params — never the password or
// the key), and leaves the session unlocked.
func (s *Service) SetPassword(ctx context.Context, password, hint string) error {
	if len(password) < s.minPassword {
		return fmt.Errorf("%w: need at least %d characters", ErrWeakPassword, s.minPassword)
	}

	// Derivation is deliberately slow; keep it outside the session lock.
	key, salt, err := s.keychain.DeriveKey(password, nil, s.keychain.DefaultParams())
	if err != nil {
		return fmt.Errorf("derive app key: %w", err)
	}

	record := models.AuthRecord{
		PasswordHash: s.keychain.HashSecret(password),
		PasswordHint: hint,
		Salt:         base64.StdEncoding.EncodeToString(salt),
		Params:       s.keychain.DefaultParams(),
	}
	if err = s.saveRecord(ctx, record); err != nil {
		return err
	}

	s.mu.Lock()
	s.installAppKeyLocked(key)
	s.session.hasPassword = true
	s.mu.Unlock()
	s.notify()

	s.log.Info().Msg("password set, session unlocked")
	return nil
}

// Unlock verifies the password and re-derives the app key from the stored
// salt and params, so the key matches the one data was encrypted under. On
// any failure the session is left untouched.
func (s *Service) Unlock(ctx context.Context, password string) error {
	record, err := s.loadRecord(ctx)
	if errors.Is(err, store.ErrKeyNotFound) {
		return ErrNoPasswordSet
	}
	if err != nil {
		return err
	}

	if !s.keychain.VerifySecret(password, record.PasswordHash) {
		return ErrInvalidCredentials
	}

	salt, err := base64.StdEncoding.DecodeString(record.Salt)
	if err != nil || len(salt) == 0 {
		return fmt.Errorf("%w: bad salt", ErrCorruptAuthData)
	}

	key, _, err := s.keychain.DeriveKey(password, salt, record.Params)
	if err != nil {
		return fmt.Errorf("derive app key: %w", err)
	}

	s.mu.Lock()
	s.installAppKeyLocked(key)
	s.session.hasPassword = true
	s.mu.Unlock()
	s.notify()

	s.log.Info().Msg("session unlocked")
	return nil
}

// Lock clears both keys and both unlocked flags atomically and cancels the
// idle timer. Idempotent; called manually, on idle expiry, and on shutdown.
func (s *Service) Lock() {
	s.mu.Lock()
	s.session.appKey.Zeroize()
	s.session.journalKey.Zeroize()
	s.session.appKey = nil
	s.session.journalKey = nil
	s.session.unlocked = false
	s.session.journalUnlocked = false
	s.stopIdleTimerLocked()
	s.mu.Unlock()
	s.notify()
}

// SetJournalPasscode stores the passcode hash and derives the journal key
// from the app key. Requires an unlocked app.
func (s *Service) SetJournalPasscode(ctx context.Context, passcode string) error {
	if passcode == "" {
		return fmt.Errorf("%w: journal passcode must not be empty", ErrWeakPassword)
	}

	s.mu.Lock()

	if s.session.appKey == nil {
		s.mu.Unlock()
		return ErrNotUnlocked
	}

	record, err := s.loadRecord(ctx)
	if errors.Is(err, store.ErrKeyNotFound) {
		s.mu.Unlock()
		return ErrNoPasswordSet
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}

	record.JournalPasscodeHash = s.keychain.HashSecret(passcode)
	if err = s.saveRecord(ctx, record); err != nil {
		s.mu.Unlock()
		return err
	}

	journalKey, err := s.keychain.DeriveSubKey(s.session.appKey, journalInfoPrefix+passcode)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("derive journal key: %w", err)
	}
	s.installJournalKeyLocked(journalKey)
	s.mu.Unlock()
	s.notify()

	s.log.Info().Msg("journal passcode set, journal unlocked")
	return nil
}

// UnlockJournal verifies the passcode against its stored hash, then derives
// the journal key. Requires an unlocked app regardless of passcode
// validity.
func (s *Service) UnlockJournal(ctx context.Context, passcode string) error {
	s.mu.Lock()

	if s.session.appKey == nil {
		s.mu.Unlock()
		return ErrNotUnlocked
	}

	record, err := s.loadRecord(ctx)
	if errors.Is(err, store.ErrKeyNotFound) {
		s.mu.Unlock()
		return ErrNoPasswordSet
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if record.JournalPasscodeHash == "" {
		s.mu.Unlock()
		return ErrJournalPasscodeNotSet
	}

	if !s.keychain.VerifySecret(passcode, record.JournalPasscodeHash) {
		s.mu.Unlock()
		return ErrInvalidCredentials
	}

	journalKey, err := s.keychain.DeriveSubKey(s.session.appKey, journalInfoPrefix+passcode)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("derive journal key: %w", err)
	}
	s.installJournalKeyLocked(journalKey)
	s.mu.Unlock()
	s.notify()

	s.log.Info().Msg("journal unlocked")
	return nil
}

// LockJournal clears only the journal key; the app-level unlock is
// unaffected.
func (s *Service) LockJournal() {
	s.mu.Lock()
	s.session.journalKey.Zeroize()
	s.session.journalKey = nil
	s.session.journalUnlocked = false
	s.mu.Unlock()
	s.notify()
}

// RecordActivity marks user activity and reschedules the idle timer. The
// out-of-scope UI layer funnels every input event through this single
// method.
func (s *Service) RecordActivity() {
	s.mu.Lock()
	s.session.lastActivity = time.Now()
	if s.session.unlocked {
		s.resetIdleTimerLocked()
	}
	s.mu.Unlock()
}

// SetIdleTimeout changes the idle timeout (e.g. when switching between the
// "standard" and "secure" security levels) and immediately reschedules the
// pending timer with the new value.
func (s *Service) SetIdleTimeout(d time.Duration) {
	if d <= 0 {
		return
	}

	s.mu.Lock()
	s.idleTimeout = d
	if s.session.unlocked {
		s.resetIdleTimerLocked()
	}
	s.mu.Unlock()
}

// Subscribe registers a listener invoked synchronously after every state
// transition; listeners always observe consistent post-transition state.
// The returned function unsubscribes.
func (s *Service) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// State returns a snapshot of the session.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		HasPassword:     s.session.hasPassword,
		Unlocked:        s.session.unlocked,
		JournalUnlocked: s.session.journalUnlocked,
		LastActivity:    s.session.lastActivity,
		IdleTimeout:     s.idleTimeout,
	}
}

// AppKey returns the active app key, or [ErrNotUnlocked]. Implements the
// store layer's key provider.
func (s *Service) AppKey() (*crypto.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.appKey == nil {
		return nil, ErrNotUnlocked
	}
	return s.session.appKey, nil
}

// JournalKey returns the active journal key, or [ErrNotUnlocked].
func (s *Service) JournalKey() (*crypto.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.journalKey == nil {
		return nil, ErrNotUnlocked
	}
	return s.session.journalKey, nil
}

// PasswordHint returns the stored hint, which may be empty.
func (s *Service) PasswordHint(ctx context.Context) (string, error) {
	record, err := s.loadRecord(ctx)
	if errors.Is(err, store.ErrKeyNotFound) {
		return "", ErrNoPasswordSet
	}
	if err != nil {
		return "", err
	}
	return record.PasswordHint, nil
}

// Reset locks the session and deletes the auth record. This is the only
// remedial action for corrupt or unrecoverable auth data: all previously
// encrypted content becomes permanently unreadable.
func (s *Service) Reset(ctx context.Context) error {
	s.Lock()

	if err := s.kv.Delete(ctx, authRecordKey); err != nil {
		return fmt.Errorf("delete auth record: %w", err)
	}

	s.mu.Lock()
	s.session.hasPassword = false
	s.mu.Unlock()
	s.notify()

	s.log.Warn().Msg("auth record deleted, encrypted store reset")
	return nil
}

// installAppKeyLocked replaces the app key, marks the session unlocked, and
// restarts the idle timer. Caller holds s.mu.
func (s *Service) installAppKeyLocked(key *crypto.Key) {
	s.session.appKey.Zeroize()
	s.session.appKey = key
	s.session.unlocked = true
	s.session.lastActivity = time.Now()
	s.resetIdleTimerLocked()
}

// installJournalKeyLocked replaces the journal key and marks the journal
// unlocked. Caller holds s.mu and has verified the app key is present.
func (s *Service) installJournalKeyLocked(key *crypto.Key) {
	s.session.journalKey.Zeroize()
	s.session.journalKey = key
	s.session.journalUnlocked = true
	s.session.lastActivity = time.Now()
	s.resetIdleTimerLocked()
}

// clearSessionLocked drops keys and flags without touching hasPassword.
func (s *Service) clearSessionLocked() {
	s.session.appKey.Zeroize()
	s.session.journalKey.Zeroize()
	s.session.appKey = nil
	s.session.journalKey = nil
	s.session.unlocked = false
	s.session.journalUnlocked = false
	s.stopIdleTimerLocked()
}

// resetIdleTimerLocked cancels and reschedules the single idle timer.
// Exactly one timer is ever pending; activity never stacks timers.
func (s *Service) resetIdleTimerLocked() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleTimer = time.AfterFunc(s.idleTimeout, s.Lock)
}

func (s *Service) stopIdleTimerLocked() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
}

// notify invokes listeners outside the session lock, in subscription order,
// after the transition has fully completed.
func (s *Service) notify() {
	s.mu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Service) loadRecord(ctx context.Context) (models.AuthRecord, error) {
	data, err := s.kv.Get(ctx, authRecordKey)
	if err != nil {
		return models.AuthRecord{}, err
	}

	var record models.AuthRecord
	if err = json.Unmarshal(data, &record); err != nil {
		return models.AuthRecord{}, fmt.Errorf("%w: %v", ErrCorruptAuthData, err)
	}
	return record, nil
}

func (s *Service) saveRecord(ctx context.Context, record models.AuthRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode auth record: %w", err)
	}
	if err = s.kv.Set(ctx, authRecordKey, data); err != nil {
		return fmt.Errorf("persist auth record: %w", err)
	}
	return nil
}
