// Package stateio persists and reloads a project's symbol index to a
// per-project SQLite file (".codescope/index.db" under the project
// root, 0o700 directory, 0o600 file, busy_timeout/WAL pragmas on the
// DSN). Parse trees and source text are never persisted; they are
// rebuilt lazily after a reload.
package stateio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/internal/rawdecl"
	"github.com/oxhq/codescope/internal/symbolindex"
	"github.com/oxhq/codescope/signature"
)

// formatVersion guards against loading state written by an incompatible
// schema; bump it whenever a row shape below changes.
const formatVersion = 1

// PathFor returns the default per-project state file beneath root.
func PathFor(root string) string {
	return filepath.Join(root, ".codescope", "index.db")
}

// Store owns one project's persisted symbol index.
type Store struct {
	db *gorm.DB
}

// Open creates the state directory if needed and opens (creating if
// absent) the SQLite file at path, applying busy-timeout/WAL pragmas
// through the DSN and running AutoMigrate for all three tables.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("stateio: creating state directory: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f, err := os.OpenFile(path, os.O_CREATE, 0o600)
		if err != nil {
			return nil, fmt.Errorf("stateio: creating state file: %w", err)
		}
		f.Close()
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=ON&_journal_mode=WAL&_synchronous=NORMAL&_temp_store=MEMORY", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("stateio: opening database: %w", err)
	}
	if err := db.AutoMigrate(&symbolUnitRow{}, &filePropertiesRow{}, &analyzerSnapshotRow{}); err != nil {
		return nil, fmt.Errorf("stateio: migrating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- row shapes ---

type symbolUnitRow struct {
	Key             string `gorm:"primaryKey;type:varchar(512)"`
	SnapshotVersion int64  `gorm:"index"`
	File            string `gorm:"index"`
	Kind            int
	PackageName     string
	ShortName       string
	SignatureValue  string
	SignatureSet    bool
	ParentKey       string
	DeclStart       int
	DeclEnd         int
	DocStart        int
	DocEnd          int
	HasDoc          bool
	BaseTypes       datatypes.JSON
	ReturnType      string
}

func (symbolUnitRow) TableName() string { return "symbol_units" }

type filePropertiesRow struct {
	File               string `gorm:"primaryKey;type:varchar(1024)"`
	SnapshotVersion    int64  `gorm:"index"`
	Language           string
	Imports            datatypes.JSON
	ResolvedImportKeys datatypes.JSON
	Reexports          datatypes.JSON
}

func (filePropertiesRow) TableName() string { return "file_properties" }

type analyzerSnapshotRow struct {
	Version       int64 `gorm:"primaryKey"`
	FormatVersion int
	CreatedAt     time.Time
}

func (analyzerSnapshotRow) TableName() string { return "analyzer_snapshots" }

// reexportRow is the JSON shape stored in filePropertiesRow.Reexports,
// a serializable mirror of symbolindex.ReexportInfo (whose Symbols set
// marshals fine as a JSON object but is kept explicit here for clarity
// across the persisted boundary).
type reexportRow struct {
	Source    string              `json:"source"`
	Symbols   map[string]struct{} `json:"symbols,omitempty"`
	Renamed   map[string]string   `json:"renamed,omitempty"`
	Namespace string              `json:"namespace,omitempty"`
	ExportAll bool                `json:"exportAll,omitempty"`
}

// Save replaces the store's contents with a fresh snapshot of idx
// inside one transaction: every prior symbol_units/
// file_properties row is deleted, a new analyzer_snapshots row is
// inserted with a monotonic version, and every live CodeUnit and
// FileProperties is re-persisted tagged with that version.
func (s *Store) Save(idx *symbolindex.Index) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&symbolUnitRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&filePropertiesRow{}).Error; err != nil {
			return err
		}

		snapshot := analyzerSnapshotRow{
			Version:       time.Now().UnixNano(),
			FormatVersion: formatVersion,
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}

		units := idx.AllDeclarations()
		unitRows := make([]symbolUnitRow, 0, len(units))
		for _, u := range units {
			row, err := toSymbolUnitRow(idx, u, snapshot.Version)
			if err != nil {
				return err
			}
			unitRows = append(unitRows, row)
		}
		if len(unitRows) > 0 {
			if err := tx.CreateInBatches(unitRows, 200).Error; err != nil {
				return err
			}
		}

		files := idx.Files()
		propRows := make([]filePropertiesRow, 0, len(files))
		for _, f := range files {
			props := idx.FileProperties(f)
			if props == nil {
				continue
			}
			row, err := toFilePropertiesRow(f, props, snapshot.Version)
			if err != nil {
				return err
			}
			propRows = append(propRows, row)
		}
		if len(propRows) > 0 {
			if err := tx.CreateInBatches(propRows, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Load rebuilds an Index from the latest persisted snapshot. ok is
// false (with a nil error) when the store is empty or carries a
// FormatVersion this build no longer understands — the caller treats
// either case as "no usable prior state", never as a hard failure.
func (s *Store) Load() (idx *symbolindex.Index, ok bool, err error) {
	var snapshot analyzerSnapshotRow
	if err := s.db.Order("version DESC").First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stateio: reading snapshot: %w", err)
	}
	if snapshot.FormatVersion != formatVersion {
		return nil, false, nil
	}

	var unitRows []symbolUnitRow
	if err := s.db.Where("snapshot_version = ?", snapshot.Version).Find(&unitRows).Error; err != nil {
		return nil, false, fmt.Errorf("stateio: reading symbol units: %w", err)
	}
	var propRows []filePropertiesRow
	if err := s.db.Where("snapshot_version = ?", snapshot.Version).Find(&propRows).Error; err != nil {
		return nil, false, fmt.Errorf("stateio: reading file properties: %w", err)
	}

	units := make([]symbolindex.PersistedUnit, 0, len(unitRows))
	unitByKey := make(map[string]codeunit.CodeUnit, len(unitRows))
	for _, row := range unitRows {
		pu, err := fromSymbolUnitRow(row)
		if err != nil {
			return nil, false, err
		}
		units = append(units, pu)
		unitByKey[pu.Unit.Key()] = pu.Unit
	}

	fileProps := make(map[string]*symbolindex.FileProperties, len(propRows))
	for _, row := range propRows {
		props, err := fromFilePropertiesRow(row, unitByKey)
		if err != nil {
			return nil, false, err
		}
		fileProps[row.File] = props
	}

	return symbolindex.Rehydrate(units, fileProps), true, nil
}

func toSymbolUnitRow(idx *symbolindex.Index, u codeunit.CodeUnit, version int64) (symbolUnitRow, error) {
	file := ""
	if s := u.Source(); s != nil {
		file = *s
	}
	sigValue, sigSet := u.Signature().Value()

	parentKey := ""
	if p, ok := idx.Parent(u); ok {
		parentKey = p.Key()
	}

	declRange, docRange, hasDoc, _, _ := idx.DeclMeta(u)

	baseTypes, err := json.Marshal(idx.BaseTypes(u))
	if err != nil {
		return symbolUnitRow{}, fmt.Errorf("stateio: marshaling base types for %s: %w", u.Key(), err)
	}

	return symbolUnitRow{
		Key:             u.Key(),
		SnapshotVersion: version,
		File:            file,
		Kind:            int(u.Kind()),
		PackageName:     u.PackageName(),
		ShortName:       u.ShortName(),
		SignatureValue:  sigValue,
		SignatureSet:    sigSet,
		ParentKey:       parentKey,
		DeclStart:       declRange.Start,
		DeclEnd:         declRange.End,
		DocStart:        docRange.Start,
		DocEnd:          docRange.End,
		HasDoc:          hasDoc,
		BaseTypes:       datatypes.JSON(baseTypes),
		ReturnType:      idx.ReturnType(u),
	}, nil
}

func fromSymbolUnitRow(row symbolUnitRow) (symbolindex.PersistedUnit, error) {
	var sig signature.Signature
	if row.SignatureSet {
		sig = signature.MustParse(row.SignatureValue)
	}
	file := row.File
	unit := codeunit.New(&file, codeunit.Kind(row.Kind), row.PackageName, row.ShortName, sig)

	var baseTypes []string
	if len(row.BaseTypes) > 0 {
		if err := json.Unmarshal(row.BaseTypes, &baseTypes); err != nil {
			return symbolindex.PersistedUnit{}, fmt.Errorf("stateio: unmarshaling base types for %s: %w", row.Key, err)
		}
	}

	return symbolindex.PersistedUnit{
		Unit:       unit,
		ParentKey:  row.ParentKey,
		DeclRange:  rawdecl.ByteRange{Start: row.DeclStart, End: row.DeclEnd},
		DocRange:   rawdecl.ByteRange{Start: row.DocStart, End: row.DocEnd},
		HasDoc:     row.HasDoc,
		BaseTypes:  baseTypes,
		ReturnType: row.ReturnType,
	}, nil
}

func toFilePropertiesRow(file string, props *symbolindex.FileProperties, version int64) (filePropertiesRow, error) {
	imports, err := json.Marshal(props.Imports)
	if err != nil {
		return filePropertiesRow{}, fmt.Errorf("stateio: marshaling imports for %s: %w", file, err)
	}

	resolvedKeys := make([]string, 0, len(props.ResolvedImports))
	for _, u := range props.ResolvedImports {
		resolvedKeys = append(resolvedKeys, u.Key())
	}
	resolved, err := json.Marshal(resolvedKeys)
	if err != nil {
		return filePropertiesRow{}, fmt.Errorf("stateio: marshaling resolved imports for %s: %w", file, err)
	}

	reexports := make([]reexportRow, 0, len(props.Reexports))
	for _, r := range props.Reexports {
		reexports = append(reexports, reexportRow{
			Source:    r.Source,
			Symbols:   r.Symbols,
			Renamed:   r.Renamed,
			Namespace: r.Namespace,
			ExportAll: r.ExportAll,
		})
	}
	reexportsJSON, err := json.Marshal(reexports)
	if err != nil {
		return filePropertiesRow{}, fmt.Errorf("stateio: marshaling reexports for %s: %w", file, err)
	}

	return filePropertiesRow{
		File:               file,
		SnapshotVersion:    version,
		Language:           props.Language,
		Imports:            datatypes.JSON(imports),
		ResolvedImportKeys: datatypes.JSON(resolved),
		Reexports:          datatypes.JSON(reexportsJSON),
	}, nil
}

func fromFilePropertiesRow(row filePropertiesRow, unitByKey map[string]codeunit.CodeUnit) (*symbolindex.FileProperties, error) {
	var imports []string
	if len(row.Imports) > 0 {
		if err := json.Unmarshal(row.Imports, &imports); err != nil {
			return nil, fmt.Errorf("stateio: unmarshaling imports for %s: %w", row.File, err)
		}
	}

	var resolvedKeys []string
	if len(row.ResolvedImportKeys) > 0 {
		if err := json.Unmarshal(row.ResolvedImportKeys, &resolvedKeys); err != nil {
			return nil, fmt.Errorf("stateio: unmarshaling resolved imports for %s: %w", row.File, err)
		}
	}
	resolved := make([]codeunit.CodeUnit, 0, len(resolvedKeys))
	for _, k := range resolvedKeys {
		if u, ok := unitByKey[k]; ok {
			resolved = append(resolved, u)
		}
	}

	var reexports []reexportRow
	if len(row.Reexports) > 0 {
		if err := json.Unmarshal(row.Reexports, &reexports); err != nil {
			return nil, fmt.Errorf("stateio: unmarshaling reexports for %s: %w", row.File, err)
		}
	}
	reexportInfos := make([]symbolindex.ReexportInfo, 0, len(reexports))
	for _, r := range reexports {
		reexportInfos = append(reexportInfos, symbolindex.ReexportInfo{
			Source:    r.Source,
			Symbols:   r.Symbols,
			Renamed:   r.Renamed,
			Namespace: r.Namespace,
			ExportAll: r.ExportAll,
		})
	}

	return &symbolindex.FileProperties{
		Language:        row.Language,
		Imports:         imports,
		ResolvedImports: resolved,
		Reexports:       reexportInfos,
	}, nil
}
