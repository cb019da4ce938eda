package domain

// Config mirrors ~/.rigup/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	Target              TargetSettings     `yaml:"target"`
	Encryption          EncryptionSettings `yaml:"encryption"`
	Install             InstallSettings    `yaml:"install"`
	Bootloader          BootloaderSettings `yaml:"bootloader"`
	Policy              PolicySettings     `yaml:"policy"`
	Journal             JournalSettings    `yaml:"journal"`
	Logs                LogSettings        `yaml:"logs"`
}

// TargetSettings names the disk and partitions the workflow operates
// on. Values are defaults shown in prompts; the operator can override
// each one interactively.
type TargetSettings struct {
	Device        string `yaml:"device"`
	BootPartition string `yaml:"boot_partition"`
	RootPartition string `yaml:"root_partition"`
	MountPoint    string `yaml:"mount_point"`
	BootMountDir  string `yaml:"boot_mount_dir"`
}

// EncryptionSettings configures the optional dm-crypt layer.
type EncryptionSettings struct {
	MapperName string `yaml:"mapper_name"`
}

// InstallSettings lists what goes onto the mounted system.
type InstallSettings struct {
	Packages []string `yaml:"packages"`
	Timezone string   `yaml:"timezone"`
	Locale   string   `yaml:"locale"`
	Hostname string   `yaml:"hostname"`
	Username string   `yaml:"username"`
}

// BootloaderSettings configures the grub install step.
type BootloaderSettings struct {
	Target string `yaml:"target"`
	ID     string `yaml:"id"`
}

// PolicySettings points at the risk policy rules file.
type PolicySettings struct {
	RulesFile string `yaml:"rules_file"`
}

// JournalSettings controls the per-operation session journal. Enabled
// is a pointer so an omitted journal block defaults to on; only an
// explicit `enabled: false` turns journaling off.
type JournalSettings struct {
	Enabled *bool  `yaml:"enabled"`
	Backend string `yaml:"backend"`
}

// On reports whether journaling is active.
func (j JournalSettings) On() bool {
	return j.Enabled == nil || *j.Enabled
}

// LogSettings controls where session logs are written.
type LogSettings struct {
	Dir string `yaml:"dir"`
}
