package provision

import (
	"fmt"
	"strings"

	"github.com/doeshing/rigup/internal/domain"
)

// StagePlan describes what one stage would do with the current
// configuration defaults, for the `rigup plan` command. Prompts are
// not evaluated; the plan shows the automatic-format, no-encryption
// path with every default accepted.
type StagePlan struct {
	Name     string
	Summary  string
	Commands []string
}

// Plan renders the stage list without touching the system.
func (s *Service) Plan() []StagePlan {
	t := s.Config.Target
	mnt := t.MountPoint
	bootDir := mnt + "/" + t.BootMountDir
	return []StagePlan{
		{
			Name:    domain.StageEnvironment,
			Summary: "verify network, firmware and disks",
			Commands: []string{
				"ping -c 1 archlinux.org",
				"ls /sys/firmware/efi/efivars",
				"lsblk -o NAME,SIZE,TYPE,MOUNTPOINTS",
			},
		},
		{
			Name:     domain.StageClock,
			Summary:  "enable NTP time sync",
			Commands: []string{"timedatectl set-ntp true"},
		},
		{
			Name:    domain.StagePartition,
			Summary: fmt.Sprintf("rewrite the partition table on %s (confirmation required)", t.Device),
			Commands: []string{
				fmt.Sprintf("parted -s %s mklabel gpt", t.Device),
				fmt.Sprintf("parted -s %s mkpart boot fat32 1MiB 513MiB", t.Device),
				fmt.Sprintf("parted -s %s mkpart root ext4 513MiB 100%%", t.Device),
				fmt.Sprintf("parted -s %s set 1 esp on", t.Device),
			},
		},
		{
			Name:    domain.StageEncrypt,
			Summary: fmt.Sprintf("create the root filesystem on %s (confirmation required)", t.RootPartition),
			Commands: []string{
				fmt.Sprintf("mkfs.ext4 %s", t.RootPartition),
			},
		},
		{
			Name:    domain.StageMount,
			Summary: "mount root, format and mount boot",
			Commands: []string{
				fmt.Sprintf("mount %s %s", t.RootPartition, mnt),
				fmt.Sprintf("mkdir -p %s", bootDir),
				fmt.Sprintf("mkfs.fat -F32 %s", t.BootPartition),
				fmt.Sprintf("mount %s %s", t.BootPartition, bootDir),
			},
		},
		{
			Name:    domain.StageBase,
			Summary: "install the base system",
			Commands: []string{
				fmt.Sprintf("pacstrap %s %s", mnt, strings.Join(s.Config.Install.Packages, " ")),
			},
		},
		{
			Name:    domain.StageSystem,
			Summary: "write fstab, timezone, locale and hostname",
			Commands: []string{
				fmt.Sprintf("genfstab -U %s >> %s/etc/fstab", mnt, mnt),
				fmt.Sprintf("arch-chroot %s ln -sf /usr/share/zoneinfo/%s /etc/localtime", mnt, s.Config.Install.Timezone),
				fmt.Sprintf("arch-chroot %s locale-gen", mnt),
			},
		},
		{
			Name:    domain.StageBootloader,
			Summary: "install and configure grub",
			Commands: []string{
				fmt.Sprintf("arch-chroot %s grub-install --target=%s --efi-directory=/%s --bootloader-id=%s",
					mnt, s.Config.Bootloader.Target, t.BootMountDir, s.Config.Bootloader.ID),
				fmt.Sprintf("arch-chroot %s grub-mkconfig -o /boot/grub/grub.cfg", mnt),
			},
		},
		{
			Name:    domain.StageUser,
			Summary: fmt.Sprintf("create user %s", s.Config.Install.Username),
			Commands: []string{
				fmt.Sprintf("arch-chroot %s useradd -m -G wheel %s", mnt, s.Config.Install.Username),
				fmt.Sprintf("arch-chroot %s passwd %s", mnt, s.Config.Install.Username),
			},
		},
	}
}
