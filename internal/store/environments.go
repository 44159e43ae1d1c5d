package store

import (
	"fmt"

	"github.com/studiowebux/restdesk/internal/ident"
	"github.com/studiowebux/restdesk/internal/types"
)

// CreateEnvironment adds a named environment to a collection and returns
// its id.
func (s *Store) CreateEnvironment(collectionID, name string) (string, error) {
	name = trimmed(name)
	if name == "" {
		return "", ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)

	env := &types.Environment{
		ID:        ident.New(),
		Name:      name,
		Variables: make(map[string]string),
	}
	c.Environments[env.ID] = env
	s.finish(c)
	return env.ID, nil
}

// RenameEnvironment changes an environment's display name.
func (s *Store) RenameEnvironment(collectionID, envID, name string) error {
	name = trimmed(name)
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	environmentOf(c, envID).Name = name
	s.finish(c)
	return nil
}

// DeleteEnvironment removes an environment.
func (s *Store) DeleteEnvironment(collectionID, envID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	environmentOf(c, envID)
	delete(c.Environments, envID)
	s.finish(c)
}

// SetEnvironmentVariable upserts one variable.
func (s *Store) SetEnvironmentVariable(collectionID, envID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	env := environmentOf(c, envID)
	if env.Variables == nil {
		env.Variables = make(map[string]string)
	}
	env.Variables[key] = value
	s.finish(c)
}

// UnsetEnvironmentVariable removes one variable if present.
func (s *Store) UnsetEnvironmentVariable(collectionID, envID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collectionID)
	delete(environmentOf(c, envID).Variables, key)
	s.finish(c)
}

func environmentOf(c *types.Collection, envID string) *types.Environment {
	env, ok := c.Environments[envID]
	if !ok {
		panic(fmt.Sprintf("restdesk: unknown environment %s in collection %s", envID, c.ID))
	}
	return env
}
