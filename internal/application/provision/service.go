package provision

import (
	"context"
	"fmt"

	"github.com/doeshing/rigup/internal/application/guard"
	"github.com/doeshing/rigup/internal/domain"
	"github.com/doeshing/rigup/internal/ports"
)

// Service is the stage sequencer: the fixed, ordered provisioning
// script. Each stage issues guarded operations and operator prompts,
// threading an explicit State forward so later stages read in-memory
// state instead of re-querying the OS. The sequencer alone maps
// outcomes to process exit codes; the guard never exits.
type Service struct {
	Guard    *guard.Service
	Prompter ports.OperatorPrompter
	Renderer ports.Renderer
	Logger   ports.Logger
	Config   domain.Config
}

type stage struct {
	name string
	run  func(context.Context, *domain.State) int
}

func (s *Service) stages() []stage {
	return []stage{
		{domain.StageEnvironment, s.checkEnvironment},
		{domain.StageClock, s.syncClock},
		{domain.StagePartition, s.partitionDisk},
		{domain.StageEncrypt, s.setupEncryption},
		{domain.StageMount, s.mountFilesystems},
		{domain.StageBase, s.installBase},
		{domain.StageSystem, s.configureSystem},
		{domain.StageBootloader, s.configureBootloader},
		{domain.StageUser, s.createUser},
	}
}

// Run walks the stages in order and returns the process exit code.
// The first fatal outcome or declined branch stops the walk.
func (s *Service) Run(ctx context.Context) int {
	if s.Guard.Mode.Live() {
		s.Renderer.Warn("live mode: guarded commands WILL modify this machine")
	} else {
		s.Renderer.Info("simulate mode: guarded commands are printed, not executed")
	}

	state := &domain.State{
		Device:        s.Config.Target.Device,
		BootPartition: s.Config.Target.BootPartition,
		RootPartition: s.Config.Target.RootPartition,
		MapperName:    s.Config.Encryption.MapperName,
	}

	for _, st := range s.stages() {
		if ctx.Err() != nil {
			s.Renderer.Error("session interrupted")
			return domain.ExitFatal
		}
		s.Renderer.Info("== stage: %s ==", st.name)
		if code := st.run(ctx, state); code != domain.ExitOK {
			return code
		}
	}

	s.Renderer.Success("provisioning complete")
	return domain.ExitOK
}

// checkEnvironment verifies the machine can actually be provisioned:
// network reachability is required, firmware and disk listings are
// informational.
func (s *Service) checkEnvironment(ctx context.Context, _ *domain.State) int {
	outcome := s.Guard.RunRequired(ctx, domain.Operation{
		Argv:    []string{"ping", "-c", "1", "archlinux.org"},
		Failure: "no network reachability; connect the machine first",
		Tier:    domain.TierChecked,
		Stage:   domain.StageEnvironment,
	})
	if outcome.Fatal {
		return domain.ExitFatal
	}

	if out := s.Guard.RunChecked(ctx, domain.Operation{
		Argv:    []string{"ls", "/sys/firmware/efi/efivars"},
		Failure: "UEFI variables not visible",
		Tier:    domain.TierSafe,
		Stage:   domain.StageEnvironment,
	}); out.Status == domain.StatusFailure {
		s.Renderer.Warn("UEFI firmware not detected; BIOS installs need a different bootloader setup")
	}

	// Informational; failure never blocks.
	s.Guard.RunChecked(ctx, domain.Operation{
		Argv:    []string{"lsblk", "-o", "NAME,SIZE,TYPE,MOUNTPOINTS"},
		Failure: "partition listing failed",
		Tier:    domain.TierSafe,
		Stage:   domain.StageEnvironment,
	})
	return domain.ExitOK
}

func (s *Service) syncClock(ctx context.Context, _ *domain.State) int {
	outcome := s.Guard.RunGuarded(ctx, domain.Operation{
		Argv:    []string{"timedatectl", "set-ntp", "true"},
		Failure: "enabling NTP failed",
		Tier:    domain.TierChecked,
		Stage:   domain.StageClock,
	})
	if outcome.Fatal {
		return domain.ExitFatal
	}
	return domain.ExitOK
}

// partitionDisk rewrites the partition table. Automatic formatting
// issues exactly four parted operations; manual hands the terminal to
// fdisk; anything else aborts the session.
func (s *Service) partitionDisk(ctx context.Context, state *domain.State) int {
	device, err := s.Prompter.Line("Target disk", state.Device)
	if err == nil && device != "" {
		state.Device = device
	}

	choice, err := s.Prompter.Choose(
		fmt.Sprintf("Partition %s: [f]ormat automatically, [m]anual, [a]bort", state.Device), "fma")
	if err != nil {
		choice = 0
	}

	switch choice {
	case 'f':
		// parted mkpart takes name, fs-type, start, end in that order.
		for _, argv := range [][]string{
			{"parted", "-s", state.Device, "mklabel", "gpt"},
			{"parted", "-s", state.Device, "mkpart", "boot", "fat32", "1MiB", "513MiB"},
			{"parted", "-s", state.Device, "mkpart", "root", "ext4", "513MiB", "100%"},
			{"parted", "-s", state.Device, "set", "1", "esp", "on"},
		} {
			outcome := s.Guard.RunDangerous(ctx, domain.Operation{
				Argv:    argv,
				Failure: "partitioning " + state.Device + " failed",
				Tier:    domain.TierDangerous,
				Stage:   domain.StagePartition,
			})
			if outcome.Fatal {
				return domain.ExitFatal
			}
		}
	case 'm':
		outcome := s.Guard.RunGuarded(ctx, domain.Operation{
			Argv:        []string{"fdisk", state.Device},
			Failure:     "manual partitioning failed",
			Tier:        domain.TierChecked,
			Stage:       domain.StagePartition,
			Interactive: true,
		})
		if outcome.Fatal {
			return domain.ExitFatal
		}
	default:
		s.Renderer.Error("partitioning aborted by operator")
		return domain.ExitDeclined
	}

	if boot, err := s.Prompter.Line("Boot partition", state.BootPartition); err == nil && boot != "" {
		state.BootPartition = boot
	}
	if root, err := s.Prompter.Line("Root partition", state.RootPartition); err == nil && root != "" {
		state.RootPartition = root
	}
	return domain.ExitOK
}

// setupEncryption optionally layers dm-crypt under the root
// filesystem, then creates the filesystem on whichever device ends up
// holding it.
func (s *Service) setupEncryption(ctx context.Context, state *domain.State) int {
	choice, err := s.Prompter.Choose(
		fmt.Sprintf("Root partition %s: [e]ncrypt, [p]lain, [a]bort", state.RootPartition), "epa")
	if err != nil {
		choice = 0
	}

	switch choice {
	case 'e':
		if outcome := s.Guard.RunDangerous(ctx, domain.Operation{
			Argv:        []string{"cryptsetup", "luksFormat", state.RootPartition},
			Failure:     "LUKS format failed",
			Tier:        domain.TierDangerous,
			Stage:       domain.StageEncrypt,
			Interactive: true,
		}); outcome.Fatal {
			return domain.ExitFatal
		}
		if outcome := s.Guard.RunGuarded(ctx, domain.Operation{
			Argv:        []string{"cryptsetup", "open", state.RootPartition, state.MapperName},
			Failure:     "opening encrypted volume failed",
			Tier:        domain.TierChecked,
			Stage:       domain.StageEncrypt,
			Interactive: true,
		}); outcome.Fatal {
			return domain.ExitFatal
		}
		state.Encrypted = true
	case 'p':
		// Filesystem goes straight onto the partition below.
	default:
		s.Renderer.Error("encryption choice aborted by operator")
		return domain.ExitDeclined
	}

	if outcome := s.Guard.RunDangerous(ctx, domain.Operation{
		Argv:    []string{"mkfs.ext4", state.RootFilesystemDevice()},
		Failure: "creating root filesystem failed",
		Tier:    domain.TierDangerous,
		Stage:   domain.StageEncrypt,
	}); outcome.Fatal {
		return domain.ExitFatal
	}
	return domain.ExitOK
}

// mountFilesystems mounts the root filesystem, then formats and
// mounts the boot partition inside it. Later stages write into these
// mounts, so any failure here is fatal.
func (s *Service) mountFilesystems(ctx context.Context, state *domain.State) int {
	mountPoint := s.Config.Target.MountPoint
	if outcome := s.Guard.RunGuarded(ctx, domain.Operation{
		Argv:    []string{"mount", state.RootFilesystemDevice(), mountPoint},
		Failure: "mounting root filesystem failed",
		Tier:    domain.TierChecked,
		Stage:   domain.StageMount,
	}); outcome.Fatal {
		return domain.ExitFatal
	}
	state.Mounts = append(state.Mounts, mountPoint)

	bootDir := mountPoint + "/" + s.Config.Target.BootMountDir
	if outcome := s.Guard.RunGuarded(ctx, domain.Operation{
		Argv:    []string{"mkdir", "-p", bootDir},
		Failure: "creating boot mount dir failed",
		Tier:    domain.TierChecked,
		Stage:   domain.StageMount,
	}); outcome.Fatal {
		return domain.ExitFatal
	}

	if outcome := s.Guard.RunDangerous(ctx, domain.Operation{
		Argv:    []string{"mkfs.fat", "-F32", state.BootPartition},
		Failure: "formatting boot partition failed",
		Tier:    domain.TierDangerous,
		Stage:   domain.StageMount,
	}); outcome.Fatal {
		return domain.ExitFatal
	}

	if outcome := s.Guard.RunGuarded(ctx, domain.Operation{
		Argv:    []string{"mount", state.BootPartition, bootDir},
		Failure: "mounting boot partition failed",
		Tier:    domain.TierChecked,
		Stage:   domain.StageMount,
	}); outcome.Fatal {
		return domain.ExitFatal
	}
	state.Mounts = append(state.Mounts, bootDir)
	return domain.ExitOK
}

func (s *Service) installBase(ctx context.Context, _ *domain.State) int {
	argv := append([]string{"pacstrap", s.Config.Target.MountPoint}, s.Config.Install.Packages...)
	outcome := s.Guard.RunGuarded(ctx, domain.Operation{
		Argv:    argv,
		Failure: "base system installation failed",
		Tier:    domain.TierChecked,
		Stage:   domain.StageBase,
	})
	if outcome.Fatal {
		return domain.ExitFatal
	}
	return domain.ExitOK
}

// configureSystem writes fstab, timezone, locale and hostname into
// the mounted system.
func (s *Service) configureSystem(ctx context.Context, _ *domain.State) int {
	mnt := s.Config.Target.MountPoint
	ops := []domain.Operation{
		{
			Argv:    []string{"sh", "-c", fmt.Sprintf("genfstab -U %s >> %s/etc/fstab", mnt, mnt)},
			Failure: "fstab generation failed",
		},
		{
			Argv:    []string{"arch-chroot", mnt, "ln", "-sf", "/usr/share/zoneinfo/" + s.Config.Install.Timezone, "/etc/localtime"},
			Failure: "timezone setup failed",
		},
		{
			Argv:    []string{"arch-chroot", mnt, "hwclock", "--systohc"},
			Failure: "hardware clock sync failed",
		},
		{
			Argv:    []string{"sh", "-c", fmt.Sprintf("echo '%s UTF-8' >> %s/etc/locale.gen", s.Config.Install.Locale, mnt)},
			Failure: "locale registration failed",
		},
		{
			Argv:    []string{"arch-chroot", mnt, "locale-gen"},
			Failure: "locale generation failed",
		},
		{
			Argv:    []string{"sh", "-c", fmt.Sprintf("echo '%s' > %s/etc/hostname", s.Config.Install.Hostname, mnt)},
			Failure: "hostname setup failed",
		},
	}
	for _, op := range ops {
		op.Tier = domain.TierChecked
		op.Stage = domain.StageSystem
		if outcome := s.Guard.RunGuarded(ctx, op); outcome.Fatal {
			return domain.ExitFatal
		}
	}
	return domain.ExitOK
}

func (s *Service) configureBootloader(ctx context.Context, _ *domain.State) int {
	mnt := s.Config.Target.MountPoint
	ops := []domain.Operation{
		{
			Argv: []string{"arch-chroot", mnt, "grub-install",
				"--target=" + s.Config.Bootloader.Target,
				"--efi-directory=/" + s.Config.Target.BootMountDir,
				"--bootloader-id=" + s.Config.Bootloader.ID},
			Failure: "grub install failed",
		},
		{
			Argv:    []string{"arch-chroot", mnt, "grub-mkconfig", "-o", "/boot/grub/grub.cfg"},
			Failure: "grub config generation failed",
		},
	}
	for _, op := range ops {
		op.Tier = domain.TierChecked
		op.Stage = domain.StageBootloader
		if outcome := s.Guard.RunGuarded(ctx, op); outcome.Fatal {
			return domain.ExitFatal
		}
	}
	return domain.ExitOK
}

func (s *Service) createUser(ctx context.Context, state *domain.State) int {
	username, err := s.Prompter.Line("Username", s.Config.Install.Username)
	if err != nil || username == "" {
		username = s.Config.Install.Username
	}
	state.Username = username

	mnt := s.Config.Target.MountPoint
	if outcome := s.Guard.RunGuarded(ctx, domain.Operation{
		Argv:    []string{"arch-chroot", mnt, "useradd", "-m", "-G", "wheel", username},
		Failure: "user creation failed",
		Tier:    domain.TierChecked,
		Stage:   domain.StageUser,
	}); outcome.Fatal {
		return domain.ExitFatal
	}

	outcome := s.Guard.RunGuarded(ctx, domain.Operation{
		Argv:        []string{"arch-chroot", mnt, "passwd", username},
		Failure:     "setting user password failed",
		Tier:        domain.TierChecked,
		Stage:       domain.StageUser,
		Interactive: true,
	})
	if outcome.Fatal {
		return domain.ExitFatal
	}
	return domain.ExitOK
}
