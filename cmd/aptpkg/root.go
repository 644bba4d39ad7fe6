package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	cm "github.com/steelcutops/aptpkg/aptpkg/commandmanager"
	"github.com/steelcutops/aptpkg/aptpkg/config"
	"github.com/steelcutops/aptpkg/aptpkg/host"
	"github.com/steelcutops/aptpkg/aptpkg/hostgroup"
	pm "github.com/steelcutops/aptpkg/aptpkg/packagemanager"
	"github.com/steelcutops/aptpkg/logger"
	"golang.org/x/term"
)

type flags struct {
	Concurrency        int
	Debug              bool
	DefaultRelease     string
	Hostnames          []string
	IniFilePath        string
	KeyPassPrompt      bool
	LogFileName        string
	Options            string
	PasswordPrompt     bool
	Source             string
	SudoPasswordPrompt bool
	Timeout            time.Duration
	Username           string
}

var (
	f   = &flags{}
	log = logger.New()

	// newHost and readPassword are replaced in tests.
	newHost      = host.NewHost
	readPassword = func(prompt string) (string, error) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
)

var rootCmd = &cobra.Command{
	Use:   "aptpkg",
	Short: "Query and converge apt packages on Debian-family hosts",
	Long: `aptpkg queries installed and candidate versions of apt packages and
installs, upgrades, removes, purges or reconfigures them, locally or over SSH.

Examples:
  aptpkg status vim curl
  aptpkg --hostname web1 --hostname web2 install nginx --version 1.22.1-9
  aptpkg --ini hosts.ini --sudo-password upgrade openssl
  aptpkg remove awk`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: configureLogger,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&f.Concurrency, "concurrency", hostgroup.DefaultConcurrency, "Maximum number of concurrent host connections")
	pf.BoolVar(&f.Debug, "debug", false, "Enable debug log level")
	pf.StringVar(&f.DefaultRelease, "default-release", "", "Pin queries and installs to this release (APT::Default-Release)")
	pf.StringArrayVar(&f.Hostnames, "hostname", nil, "Hostname to connect to (repeatable)")
	pf.StringVar(&f.IniFilePath, "ini", "", "Path to INI file with host groups and [apt] defaults")
	pf.BoolVar(&f.KeyPassPrompt, "keypass", false, "Prompt for the passphrase decrypting SSH keys")
	pf.StringVar(&f.LogFileName, "log", "", "Log file name (default stderr)")
	pf.StringVar(&f.Options, "options", "", "Extra apt-get options, space separated")
	pf.BoolVar(&f.PasswordPrompt, "password", false, "Prompt for a password for SSH connections")
	pf.StringVar(&f.Source, "source", "", "Local package file (not supported by apt)")
	pf.BoolVar(&f.SudoPasswordPrompt, "sudo-password", false, "Prompt for sudo password and run actions through sudo")
	pf.DurationVar(&f.Timeout, "timeout", 0, "Timeout for each apt command (default from config or 900s)")
	pf.StringVar(&f.Username, "username", "", "Username to use for SSH connections")

	rootCmd.AddCommand(
		statusCmd,
		installCmd,
		upgradeCmd,
		removeCmd,
		purgeCmd,
		reconfigureCmd,
		preseedCmd,
	)
}

func configureLogger(cmd *cobra.Command, _ []string) error {
	if f.LogFileName != "" {
		file, err := os.OpenFile(f.LogFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		log.SetOutput(file)
	}
	log.SetDebug(f.Debug)
	logger.SetDefault(log)
	log.Debug("Debug mode enabled")
	return nil
}

func readPasswords(f *flags) (password, keyPass, sudoPassword string, err error) {
	if f.PasswordPrompt {
		if password, err = readPassword("Enter the password: "); err != nil {
			return "", "", "", fmt.Errorf("reading password: %w", err)
		}
	}
	if f.KeyPassPrompt {
		if keyPass, err = readPassword("Enter the key passphrase: "); err != nil {
			return "", "", "", fmt.Errorf("reading key passphrase: %w", err)
		}
	}
	if f.SudoPasswordPrompt {
		if sudoPassword, err = readPassword("Enter the sudo password: "); err != nil {
			return "", "", "", fmt.Errorf("reading sudo password: %w", err)
		}
	}
	return password, keyPass, sudoPassword, nil
}

// loadConfig merges the INI file, when given, with command line overrides.
func loadConfig(f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.IniFilePath != "" {
		var err error
		if cfg, err = config.Load(f.IniFilePath); err != nil {
			return nil, err
		}
	}
	if f.DefaultRelease != "" {
		cfg.Apt.DefaultRelease = f.DefaultRelease
	}
	if f.Options != "" {
		cfg.Apt.Options = f.Options
	}
	if f.Timeout > 0 {
		cfg.Apt.Timeout = f.Timeout
	}
	return cfg, nil
}

func buildHostOptions(f *flags, cfg *config.Config, password, keyPass, sudoPassword string) []host.HostOption {
	options := []host.HostOption{
		host.WithLogger(log),
		host.WithSSHClient(cm.RealSSHClient{}),
		host.WithTimeout(cfg.Apt.Timeout),
		host.WithAptOptions(cfg.Apt.PackageManagerOptions()...),
	}
	if f.Username != "" {
		options = append(options, host.WithUser(f.Username))
	}
	if password != "" {
		options = append(options, host.WithPassword(password))
	}
	if keyPass != "" {
		options = append(options, host.WithKeyPassphrase(keyPass))
	}
	if sudoPassword != "" {
		options = append(options, host.WithSudoPassword(sudoPassword))
	} else if f.SudoPasswordPrompt {
		options = append(options, host.WithAptOptions(pm.WithSudo(true)))
	}
	return options
}

// initializeHosts connects every configured host. Hosts that cannot be
// reached or are not Debian family are logged and left out.
func initializeHosts(ctx context.Context, f *flags) (*hostgroup.HostGroup, error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return nil, err
	}

	password, keyPass, sudoPassword, err := readPasswords(f)
	if err != nil {
		return nil, err
	}
	options := buildHostOptions(f, cfg, password, keyPass, sudoPassword)

	hostnames := append(cfg.Hostnames(), f.Hostnames...)
	if len(hostnames) == 0 {
		hostnames = []string{"localhost"}
	}

	hostGroup := hostgroup.NewHostGroup()
	hostGroup.Logger = log
	for _, hostname := range hostnames {
		if hostGroup.HasHost(hostname) {
			continue
		}
		log.Debug("Adding host", "host", hostname)
		server, err := newHost(ctx, hostname, options...)
		if err != nil {
			log.Error("Failed to create new host", "host", hostname, "error", err)
			continue
		}
		hostGroup.AddHost(server)
	}

	if hostGroup.Len() == 0 {
		return nil, fmt.Errorf("no usable hosts out of %d", len(hostnames))
	}
	return hostGroup, nil
}
