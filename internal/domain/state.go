package domain

// State is the provisioning state threaded through the sequencer.
// Each stage updates it on success; later stages consult it instead
// of re-querying the OS.
type State struct {
	// Device is the whole-disk target chosen in the partition stage.
	Device string
	// BootPartition and RootPartition are the partition paths chosen
	// (or defaulted) after partitioning.
	BootPartition string
	RootPartition string
	// Encrypted is set when the encrypt stage created a LUKS volume.
	Encrypted bool
	// MapperName names the opened dm-crypt mapping when Encrypted.
	MapperName string
	// Mounts records mount targets in the order they were mounted.
	Mounts []string
	// Username chosen in the user stage.
	Username string
}

// RootFilesystemDevice is the device later stages mount and write
// into: the dm-crypt mapper when encrypted, the raw partition
// otherwise.
func (s State) RootFilesystemDevice() string {
	if s.Encrypted {
		return "/dev/mapper/" + s.MapperName
	}
	return s.RootPartition
}
