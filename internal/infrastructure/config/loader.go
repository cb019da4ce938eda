package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/rigup/assets"
	"github.com/doeshing/rigup/internal/domain"
	"github.com/doeshing/rigup/internal/pkg/filesystem"
	"github.com/doeshing/rigup/internal/ports"
)

// FileLoader loads YAML configuration from ~/.rigup/config.yaml
// (overridable via RIGUP_CONFIG or an explicit path).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. On first run the embedded
// default configuration is written to disk so the operator has a file
// to edit.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path returns the resolved configuration file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv("RIGUP_CONFIG"); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.RigupDir(), "config.yaml")
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Target.Device == "" {
		cfg.Target.Device = "/dev/sda"
	}
	if cfg.Target.BootPartition == "" {
		cfg.Target.BootPartition = partitionPath(cfg.Target.Device, 1)
	}
	if cfg.Target.RootPartition == "" {
		cfg.Target.RootPartition = partitionPath(cfg.Target.Device, 2)
	}
	if cfg.Target.MountPoint == "" {
		cfg.Target.MountPoint = "/mnt"
	}
	if cfg.Target.BootMountDir == "" {
		cfg.Target.BootMountDir = "boot"
	}
	if cfg.Encryption.MapperName == "" {
		cfg.Encryption.MapperName = "cryptroot"
	}
	if len(cfg.Install.Packages) == 0 {
		cfg.Install.Packages = []string{"base", "linux", "linux-firmware"}
	}
	if cfg.Install.Timezone == "" {
		cfg.Install.Timezone = "UTC"
	}
	if cfg.Install.Locale == "" {
		cfg.Install.Locale = "en_US.UTF-8"
	}
	if cfg.Install.Hostname == "" {
		cfg.Install.Hostname = "rigup"
	}
	if cfg.Install.Username == "" {
		cfg.Install.Username = "admin"
	}
	if cfg.Bootloader.Target == "" {
		cfg.Bootloader.Target = "x86_64-efi"
	}
	if cfg.Bootloader.ID == "" {
		cfg.Bootloader.ID = "GRUB"
	}
	if cfg.Journal.Enabled == nil {
		enabled := true
		cfg.Journal.Enabled = &enabled
	}
	if cfg.Journal.Backend == "" {
		cfg.Journal.Backend = "sqlite"
	}
	if cfg.Logs.Dir == "" {
		cfg.Logs.Dir = filepath.Join(filesystem.RigupDir(), "logs")
	}
	return cfg
}

// partitionPath derives a partition device path from a disk path.
// Devices whose name ends in a digit (nvme0n1, mmcblk0) take a "p"
// separator before the partition number.
func partitionPath(device string, number int) string {
	if device == "" {
		return ""
	}
	last := device[len(device)-1]
	if last >= '0' && last <= '9' {
		return fmt.Sprintf("%sp%d", device, number)
	}
	return fmt.Sprintf("%s%d", device, number)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
