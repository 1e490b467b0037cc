// Package snapshot writes the whole journal into an age-encrypted file and
// reads it back. Snapshots are how the local CLI moves data between devices.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/workouts"

	"filippo.io/age"
	"filippo.io/age/armor"
)

const formatVersion = 1

var (
	ErrNoRecipients   = errors.New("no recipients")
	ErrNoIdentities   = errors.New("no identities")
	ErrUnknownVersion = errors.New("unknown snapshot version")
)

type Snapshot struct {
	Version   int                 `json:"version"`
	CreatedAt time.Time           `json:"createdAt"`
	Workouts  workouts.WorkoutMap `json:"workouts"`
	Settings  workouts.Settings   `json:"settings"`
}

func New(m workouts.WorkoutMap, settings workouts.Settings, now time.Time) Snapshot {
	return Snapshot{
		Version:   formatVersion,
		CreatedAt: now.UTC().Truncate(time.Second),
		Workouts:  m,
		Settings:  settings,
	}
}

// ParseRecipients accepts age X25519 public keys ("age1...").
func ParseRecipients(keys []string) ([]age.Recipient, error) {
	var recipients []age.Recipient
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		r, err := age.ParseX25519Recipient(k)
		if err != nil {
			return nil, fmt.Errorf("parse recipient %q: %w", k, err)
		}
		recipients = append(recipients, r)
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	return recipients, nil
}

// ReadIdentityFile reads identities in the age key file format.
func ReadIdentityFile(path string) ([]age.Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	identities, err := age.ParseIdentities(f)
	if err != nil {
		return nil, fmt.Errorf("parse identity file %s: %w", path, err)
	}
	return identities, nil
}

// Write encrypts s to all recipients. Armored output is PEM-like text,
// safe to paste.
func Write(dst io.Writer, s Snapshot, armored bool, recipients ...age.Recipient) (err error) {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	out := dst
	var armorWriter io.WriteCloser
	if armored {
		armorWriter = armor.NewWriter(dst)
		out = armorWriter
	}

	w, err := age.Encrypt(out, recipients...)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	if armorWriter != nil {
		return armorWriter.Close()
	}
	return nil
}

// Read decrypts a snapshot written by Write, armored or not.
func Read(src io.Reader, identities ...age.Identity) (Snapshot, error) {
	if len(identities) == 0 {
		return Snapshot{}, ErrNoIdentities
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return Snapshot{}, err
	}

	var in io.Reader = bytes.NewReader(raw)
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte(armor.Header)) {
		in = armor.NewReader(bytes.NewReader(raw))
	}

	r, err := age.Decrypt(in, identities...)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decrypt: %w", err)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decrypt: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if s.Version != formatVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnknownVersion, s.Version)
	}

	// stored maps go through the same normalization as anything else read
	normalized, err := json.Marshal(s.Workouts)
	if err != nil {
		return Snapshot{}, err
	}
	s.Workouts = workouts.NormalizeJSON(normalized)
	if !workouts.ValidWeekStart(s.Settings.WeekStart) {
		s.Settings = workouts.DefaultSettings()
	}
	return s, nil
}
