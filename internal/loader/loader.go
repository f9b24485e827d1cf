package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/napolitain/seldon-idle/internal/models"
)

// Content file names inside the data directory
const (
	BuildingsFile    = "buildings.toml"
	UpgradesFile     = "upgrades.toml"
	AchievementsFile = "achievements.toml"
	ItemsFile        = "items.toml"
	EventsFile       = "events.toml"
	ErasFile         = "eras.toml"
)

type buildingsFile struct {
	Buildings []*models.BuildingDef `toml:"building"`
}

type upgradesFile struct {
	Upgrades []*models.UpgradeDef `toml:"upgrade"`
}

type achievementsFile struct {
	Achievements []*models.AchievementDef `toml:"achievement"`
}

type itemsFile struct {
	Items []*models.ItemDef `toml:"item"`
}

type eventsFile struct {
	Events []*models.EventDef `toml:"event"`
}

type erasFile struct {
	Eras []*models.EraDef `toml:"era"`
}

// decodeFile strictly decodes one TOML file. Optional files that do not exist decode to nothing.
func decodeFile(dataDir, name string, optional bool, v any) error {
	f, err := os.Open(filepath.Join(dataDir, name))
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// LoadBuildings loads building definitions in file order
func LoadBuildings(dataDir string) ([]*models.BuildingDef, error) {
	var file buildingsFile
	if err := decodeFile(dataDir, BuildingsFile, false, &file); err != nil {
		return nil, err
	}
	return file.Buildings, nil
}

// LoadUpgrades loads upgrade definitions in file order
func LoadUpgrades(dataDir string) ([]*models.UpgradeDef, error) {
	var file upgradesFile
	if err := decodeFile(dataDir, UpgradesFile, true, &file); err != nil {
		return nil, err
	}
	return file.Upgrades, nil
}

// LoadAchievements loads achievement definitions in file order
func LoadAchievements(dataDir string) ([]*models.AchievementDef, error) {
	var file achievementsFile
	if err := decodeFile(dataDir, AchievementsFile, true, &file); err != nil {
		return nil, err
	}
	return file.Achievements, nil
}

// LoadItems loads item definitions in file order
func LoadItems(dataDir string) ([]*models.ItemDef, error) {
	var file itemsFile
	if err := decodeFile(dataDir, ItemsFile, true, &file); err != nil {
		return nil, err
	}
	return file.Items, nil
}

// LoadEvents loads event definitions in file order
func LoadEvents(dataDir string) ([]*models.EventDef, error) {
	var file eventsFile
	if err := decodeFile(dataDir, EventsFile, true, &file); err != nil {
		return nil, err
	}
	return file.Events, nil
}

// LoadEras loads era definitions
func LoadEras(dataDir string) ([]*models.EraDef, error) {
	var file erasFile
	if err := decodeFile(dataDir, ErasFile, false, &file); err != nil {
		return nil, err
	}
	return file.Eras, nil
}

// LoadCatalog loads every content file from dataDir and validates the result
func LoadCatalog(dataDir string) (*models.Catalog, error) {
	buildings, err := LoadBuildings(dataDir)
	if err != nil {
		return nil, err
	}
	upgrades, err := LoadUpgrades(dataDir)
	if err != nil {
		return nil, err
	}
	achievements, err := LoadAchievements(dataDir)
	if err != nil {
		return nil, err
	}
	items, err := LoadItems(dataDir)
	if err != nil {
		return nil, err
	}
	events, err := LoadEvents(dataDir)
	if err != nil {
		return nil, err
	}
	eras, err := LoadEras(dataDir)
	if err != nil {
		return nil, err
	}

	catalog := models.NewCatalog(buildings, upgrades, achievements, items, events, eras)
	if err := Validate(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}
