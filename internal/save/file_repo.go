// Package save implements the flat key-value persistence facility the
// economy engine writes its snapshots into: one JSON document per profile,
// all profiles in a single file on disk.
package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"coinverse/internal/economy"
)

type fileState struct {
	Profiles map[string]json.RawMessage `json:"profiles"`
}

type store struct {
	mu      sync.Mutex
	path    string
	s       fileState
	loadErr error
}

// FileRepo is a profile-scoped view over the shared save file. It
// implements economy.Repository.
type FileRepo struct {
	store     *store
	profileID string
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &store{
		path: filepath.Join(dataDir, "saves.json"),
		s: fileState{
			Profiles: map[string]json.RawMessage{},
		},
	}
	st.load()
	return &FileRepo{
		store:     st,
		profileID: "default",
	}, nil
}

// load reads the save file. A missing file is a fresh install; an
// unreadable one is remembered and surfaced through Load so the engine
// can degrade to defaults instead of failing start-up.
func (s *store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.loadErr = err
		}
		return
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		s.loadErr = fmt.Errorf("save file %s: %w", s.path, err)
		return
	}
	if loaded.Profiles == nil {
		loaded.Profiles = map[string]json.RawMessage{}
	}
	s.s = loaded
}

func (s *store) saveLocked() error {
	b, err := json.MarshalIndent(s.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

// ForProfile returns a view scoped to the given profile id.
func (r *FileRepo) ForProfile(profileID string) *FileRepo {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		profileID = "default"
	}
	return &FileRepo{
		store:     r.store,
		profileID: profileID,
	}
}

func (r *FileRepo) Load() (economy.PlayerState, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.store.loadErr != nil {
		return economy.PlayerState{}, false, r.store.loadErr
	}

	raw, ok := r.store.s.Profiles[r.profileID]
	if !ok {
		return economy.PlayerState{}, false, nil
	}
	var st economy.PlayerState
	if err := json.Unmarshal(raw, &st); err != nil {
		return economy.PlayerState{}, false, fmt.Errorf("profile %s: %w", r.profileID, err)
	}
	return st, true, nil
}

func (r *FileRepo) Save(st economy.PlayerState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Writing a good snapshot supersedes whatever was unreadable before.
	r.store.loadErr = nil
	r.store.s.Profiles[r.profileID] = b
	return r.store.saveLocked()
}

// Profiles lists the profile ids present in the save file.
func (r *FileRepo) Profiles() []string {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]string, 0, len(r.store.s.Profiles))
	for id := range r.store.s.Profiles {
		out = append(out, id)
	}
	return out
}
