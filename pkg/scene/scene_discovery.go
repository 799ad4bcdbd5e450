package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned by Create for names that are neither built-in scenes nor description files
var ErrUnknownScene = errors.New("unknown scene")

const (
	builtinGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the description file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// Create returns a fresh scene for a built-in ID or a .yaml/.yml/.json description path
func Create(nameOrPath string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.ID == nameOrPath {
			return b.Build(), nil
		}
	}
	if isDescriptionFile(nameOrPath) {
		if _, err := os.Stat(nameOrPath); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScene, nameOrPath)
		}
		return LoadFile(nameOrPath)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, nameOrPath)
}

// BuiltinScenes lists the scenes constructed in code
func BuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		scenes = append(scenes, SceneInfo{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Group:       builtinGroup,
			Type:        "builtin",
		})
	}
	return scenes
}

// ListFileScenes scans dir for scene description files. A missing directory
// yields an empty list.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return []SceneInfo{}, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scene: scan %s: %w", dir, err)
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		scenes = append(scenes, describeFile(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// describeFile reads the metadata of a description file, falling back to
// values derived from the file name when the document cannot be parsed
func describeFile(filePath string) SceneInfo {
	info := SceneInfo{
		ID:       filePath,
		Name:     titleCase(trimExt(filepath.Base(filePath))),
		Group:    fileGroup,
		Type:     "file",
		FilePath: filePath,
	}

	desc, err := LoadDescription(filePath)
	if err != nil {
		return info
	}
	if desc.Name != "" {
		info.Name = desc.Name
	}
	if desc.Group != "" {
		info.Group = desc.Group
	}
	info.Description = desc.Description
	return info
}

// ListAllScenes returns built-in scenes and the description files in dir, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListFileScenes(dir)
	if err != nil {
		return response, fmt.Errorf("scene: list scene files: %w", err)
	}
	allScenes := append(BuiltinScenes(), fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, info := range allScenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, ok := groupMap[builtinGroup]; ok {
		response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: group})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

func isDescriptionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// titleCase converts a filename-style string to title case
// e.g., "sphere-room" -> "Sphere Room"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
