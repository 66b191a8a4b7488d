package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"github.com/KaramelBytes/tabinsight-cli/internal/parser"
	"github.com/KaramelBytes/tabinsight-cli/internal/utils"
	"github.com/google/uuid"
)

const reportsDirName = "reports"

// ErrDatasetNotFound is returned when no registered dataset matches a lookup.
var ErrDatasetNotFound = errors.New("dataset not found")

// Project is a named workspace of registered datasets persisted on disk.
type Project struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Datasets    map[string]*Dataset `json:"datasets"`
	Defaults    *Defaults           `json:"defaults"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

// Defaults are per-project column choices applied when a command does not
// name columns explicitly.
type Defaults struct {
	ValueColumn    string `json:"value_column,omitempty"`
	LabelColumn    string `json:"label_column,omitempty"`
	CategoryColumn string `json:"category_column,omitempty"`
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	now := time.Now()
	return &Project{
		Name:        name,
		Description: description,
		Datasets:    make(map[string]*Dataset),
		Defaults:    &Defaults{},
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, utils.ProjectFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if p.Datasets == nil {
		p.Datasets = make(map[string]*Dataset)
	}
	if p.Defaults == nil {
		p.Defaults = &Defaults{}
	}
	p.rootDir = dir
	return &p, nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// ReportsDir is where saved reports are written.
func (p *Project) ReportsDir() string { return filepath.Join(p.rootDir, reportsDirName) }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureProjectDir(p.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, utils.ProjectFile), data)
}

// AddDataset parses the file at path and registers it. The file is parsed
// up front so broken inputs are rejected at registration time.
func (p *Project) AddDataset(path, description string, opt parser.Options) (*Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	ds, err := parser.ParseFile(abs, opt)
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	fp, err := ds.Fingerprint()
	if err != nil {
		return nil, err
	}
	d := &Dataset{
		ID:          uuid.NewString(),
		Path:        abs,
		Name:        filepath.Base(abs),
		Description: description,
		Format:      strings.TrimPrefix(strings.ToLower(filepath.Ext(abs)), "."),
		SheetName:   opt.SheetName,
		SheetIndex:  opt.SheetIndex,
		Delimiter:   delimiterString(opt.Delimiter),
		Rows:        ds.Len(),
		ValidRows:   len(ds.ValidRows()),
		Columns:     dataset.Columns(ds.ValidRows()),
		Fingerprint: fp,
		AddedAt:     time.Now(),
	}
	if p.Datasets == nil {
		p.Datasets = make(map[string]*Dataset)
	}
	p.Datasets[d.ID] = d
	p.UpdatedAt = time.Now()
	return d, nil
}

// Find resolves a dataset by ID, unique ID prefix, or file name.
func (p *Project) Find(ref string) (*Dataset, error) {
	if d, ok := p.Datasets[ref]; ok {
		return d, nil
	}
	var matches []*Dataset
	for _, d := range p.List() {
		if d.Name == ref || (len(ref) >= 4 && strings.HasPrefix(d.ID, ref)) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q in project %s", ErrDatasetNotFound, ref, p.Name)
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("dataset reference %q is ambiguous (%d matches); use the ID", ref, len(matches))
}

// Remove unregisters a dataset. The source file is left untouched.
func (p *Project) Remove(ref string) (*Dataset, error) {
	d, err := p.Find(ref)
	if err != nil {
		return nil, err
	}
	delete(p.Datasets, d.ID)
	p.UpdatedAt = time.Now()
	return d, nil
}

// List returns the datasets in registration order.
func (p *Project) List() []*Dataset {
	out := make([]*Dataset, 0, len(p.Datasets))
	for _, d := range p.Datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Load parses the registered file again. Stale reports whether the content
// changed since registration.
func (p *Project) Load(d *Dataset) (ds *dataset.Dataset, stale bool, err error) {
	ds, err = parser.ParseFile(d.Path, d.ParserOptions())
	if err != nil {
		return nil, false, err
	}
	fp, err := ds.Fingerprint()
	if err != nil {
		return nil, false, err
	}
	return ds, fp != d.Fingerprint, nil
}

// SaveReport writes a rendered report for d under ReportsDir and returns its path.
func (p *Project) SaveReport(d *Dataset, ext string, data []byte) (string, error) {
	dir := p.ReportsDir()
	if err := utils.EnsureProjectDir(dir); err != nil {
		return "", fmt.Errorf("ensure reports dir: %w", err)
	}
	base := strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
	path := filepath.Join(dir, fmt.Sprintf("%s-%s%s", base, d.ShortID(), ext))
	if err := utils.SafeWriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func delimiterString(r rune) string {
	if r == 0 {
		return ""
	}
	return string(r)
}
