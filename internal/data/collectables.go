package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CollectableKind is one pickup type and its relative spawn weight.
type CollectableKind struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
}

type collectableListFile struct {
	Kinds []CollectableKind `yaml:"kinds"`
}

// CollectableTable lists the kinds the Lua chooser may pick from.
type CollectableTable struct {
	kinds []CollectableKind
}

// LoadCollectableTable loads collectables.yaml.
func LoadCollectableTable(path string) (*CollectableTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collectable list: %w", err)
	}
	return ParseCollectableTable(raw)
}

func ParseCollectableTable(raw []byte) (*CollectableTable, error) {
	var f collectableListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse collectable list: %w", err)
	}
	if len(f.Kinds) == 0 {
		return nil, errors.New("parse collectable list: no kinds")
	}
	for _, k := range f.Kinds {
		if k.Name == "" || k.Weight < 0 {
			return nil, fmt.Errorf("parse collectable list: bad kind %+v", k)
		}
	}
	return &CollectableTable{kinds: f.Kinds}, nil
}

func (t *CollectableTable) Kinds() []CollectableKind {
	return t.kinds
}

func (t *CollectableTable) Count() int {
	return len(t.kinds)
}

// First is the fallback kind when scripting is unavailable.
func (t *CollectableTable) First() string {
	return t.kinds[0].Name
}
