package track

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ViBiOh/flags"
	"github.com/gofrs/flock"
)

const MaxMatches = 10

var (
	ErrUserExists   = errors.New("user already tracked")
	ErrUserNotFound = errors.New("user not tracked")
)

// Member is a Discord user tracked in a guild
type Member struct {
	DiscordID string   `json:"-"`
	PUUID     string   `json:"puuid"`
	Region    string   `json:"region"`
	Matches   []string `json:"matches"`
}

// LatestMatch is the most recent recorded match, empty if none
func (m Member) LatestMatch() string {
	if len(m.Matches) == 0 {
		return ""
	}

	return m.Matches[0]
}

type guild struct {
	Users map[string]Member `json:"users"`
}

type document struct {
	Guilds map[string]*guild `json:"guilds"`
}

type Config struct {
	path *string
}

func Flags(fs *flag.FlagSet, prefix string, overrides ...flags.Override) *Config {
	return &Config{
		path: flags.New("Path", "Tracked users file").Prefix(prefix).DocPrefix("track").String(fs, "track.json", overrides),
	}
}

// Store keeps the tracked users of every guild in a JSON file, rewritten on each change
type Store struct {
	lock *flock.Flock
	doc  document
	path string
	mu   sync.RWMutex
}

func New(config *Config) (*Store, error) {
	return Open(*config.path)
}

func Open(path string) (*Store, error) {
	if len(strings.TrimSpace(path)) == 0 {
		return nil, errors.New("path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	store := &Store{
		path: path,
		lock: flock.New(path + ".lock"),
		doc:  document{Guilds: make(map[string]*guild)},
	}

	if err := store.load(); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	return store, nil
}

// Guilds returns the identifiers of guilds having tracked users, sorted
func (s *Store) Guilds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	output := make([]string, 0, len(s.doc.Guilds))
	for id, content := range s.doc.Guilds {
		if len(content.Users) != 0 {
			output = append(output, id)
		}
	}

	slices.Sort(output)

	return output
}

// Members of a guild, sorted by Discord identifier
func (s *Store) Members(guildID string) []Member {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.doc.Guilds[guildID]
	if !ok {
		return nil
	}

	output := make([]Member, 0, len(content.Users))
	for id, member := range content.Users {
		output = append(output, withID(id, member))
	}

	slices.SortFunc(output, func(a, b Member) int {
		return strings.Compare(a.DiscordID, b.DiscordID)
	})

	return output
}

func (s *Store) Member(guildID, discordID string) (Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.doc.Guilds[guildID]
	if !ok {
		return Member{}, false
	}

	member, ok := content.Users[discordID]
	if !ok {
		return Member{}, false
	}

	return withID(discordID, member), true
}

func (s *Store) AddMember(guildID, discordID, puuid, region string) (Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, existing := s.doc.Guilds[guildID]
	if !existing {
		content = &guild{Users: make(map[string]Member)}
		s.doc.Guilds[guildID] = content
	}

	if _, ok := content.Users[discordID]; ok {
		return Member{}, ErrUserExists
	}

	member := Member{
		PUUID:   puuid,
		Region:  region,
		Matches: []string{},
	}
	content.Users[discordID] = member

	if err := s.save(); err != nil {
		delete(content.Users, discordID)
		if !existing {
			delete(s.doc.Guilds, guildID)
		}

		return Member{}, err
	}

	slog.Info("member tracked", slog.String("guild", guildID), slog.String("user", discordID))

	return withID(discordID, member), nil
}

func (s *Store) RemoveMember(guildID, discordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.doc.Guilds[guildID]
	if !ok {
		return ErrUserNotFound
	}

	member, ok := content.Users[discordID]
	if !ok {
		return ErrUserNotFound
	}

	delete(content.Users, discordID)

	if err := s.save(); err != nil {
		content.Users[discordID] = member
		return err
	}

	slog.Info("member untracked", slog.String("guild", guildID), slog.String("user", discordID))

	return nil
}

// RecordMatch puts the match first in the member history, ignoring a repeat of the latest one
func (s *Store) RecordMatch(guildID, discordID, matchID string) (Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.doc.Guilds[guildID]
	if !ok {
		return Member{}, ErrUserNotFound
	}

	member, ok := content.Users[discordID]
	if !ok {
		return Member{}, ErrUserNotFound
	}

	if len(matchID) == 0 || member.LatestMatch() == matchID {
		return withID(discordID, member), nil
	}

	previous := member

	matches := make([]string, 0, MaxMatches)
	matches = append(matches, matchID)
	matches = append(matches, member.Matches[:min(len(member.Matches), MaxMatches-1)]...)
	member.Matches = matches

	content.Users[discordID] = member

	if err := s.save(); err != nil {
		content.Users[discordID] = previous
		return Member{}, err
	}

	return withID(discordID, member), nil
}

// RemoveGuild forgets every member of a guild, false if it was unknown
func (s *Store) RemoveGuild(guildID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.doc.Guilds[guildID]
	if !ok {
		return false, nil
	}

	delete(s.doc.Guilds, guildID)

	if err := s.save(); err != nil {
		s.doc.Guilds[guildID] = content
		return false, err
	}

	return true, nil
}

// Save writes the current content to disk
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save()
}

func withID(discordID string, member Member) Member {
	member.DiscordID = discordID
	member.Matches = slices.Clone(member.Matches)

	return member
}

func (s *Store) load() error {
	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("lock: %w", err)
	}

	defer func() {
		if err := s.lock.Unlock(); err != nil {
			slog.Warn("unlock track file", slog.String("path", s.path), slog.Any("error", err))
		}
	}()

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("read: %w", err)
	}

	if len(content) == 0 {
		return nil
	}

	var doc document
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	for id, entry := range doc.Guilds {
		if entry == nil || entry.Users == nil {
			doc.Guilds[id] = &guild{Users: make(map[string]Member)}
		}
	}

	if doc.Guilds != nil {
		s.doc = doc
	}

	return nil
}

// save writes the document through a temporary file renamed over the previous one
func (s *Store) save() error {
	content, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock: %w", err)
	}

	defer func() {
		if err := s.lock.Unlock(); err != nil {
			slog.Warn("unlock track file", slog.String("path", s.path), slog.Any("error", err))
		}
	}()

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
