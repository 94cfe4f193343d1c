//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/lidlock/internal/config"
	"github.com/eliteGoblin/lidlock/internal/daemon"
	"github.com/eliteGoblin/lidlock/internal/domain"
	"github.com/eliteGoblin/lidlock/internal/infra"
	"github.com/eliteGoblin/lidlock/internal/logging"
	"github.com/eliteGoblin/lidlock/internal/policy"
	"github.com/eliteGoblin/lidlock/internal/power"
	"github.com/eliteGoblin/lidlock/internal/singleton"
	"github.com/eliteGoblin/lidlock/test/fixtures"
)

var linePattern = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] ([^{]*?)(?: \{.*\})?$`)

// logMessages returns the message part of every line in the log file.
func logMessages(path string) []string {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	Expect(err).NotTo(HaveOccurred())

	var out []string
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		m := linePattern.FindStringSubmatch(line)
		Expect(m).NotTo(BeNil(), "malformed log line %q", line)
		out = append(out, m[1])
	}
	return out
}

func alwaysAcquire(string) (domain.InstanceGuard, error) {
	return nopGuard{}, nil
}

type nopGuard struct{}

func (nopGuard) Identifier() string { return singleton.Identifier }
func (nopGuard) Release() error     { return nil }

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

var _ = Describe("Lid lock agent", func() {
	var (
		tmpDir   string
		logPath  string
		logger   *zap.Logger
		platform *fixtures.FakePlatform
		runErr   error
	)

	runAgent := func(cfg config.Config) {
		factory := func(config.Config, *zap.Logger) (power.Platform, error) {
			return platform, nil
		}
		agent := daemon.NewAgentWith(cfg, alwaysAcquire, factory,
			policy.NewRegistry(), infra.NewProcessManager(), logger)
		runErr = agent.Run(canceledContext())
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "lidlock-integration-*")
		Expect(err).NotTo(HaveOccurred())

		logPath = filepath.Join(tmpDir, "lidlock.log")
		logger = logging.New(logPath)
		platform = fixtures.NewFakePlatform(logger)
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("startup", func() {
		Context("with no arguments", func() {
			It("disables logging, subscribes both classes and enters the loop", func() {
				cfg := config.FromArgs(false, nil)
				Expect(cfg.LogPath).To(BeEmpty())

				logger = logging.New(cfg.LogPath)
				platform = fixtures.NewFakePlatform(logger)
				runAgent(cfg)

				Expect(runErr).NotTo(HaveOccurred())
				Expect(platform.Subscribed).To(Equal([]string{"monitor-power-on", "lid-switch"}))
				Expect(logger.Core().Enabled(zap.InfoLevel)).To(BeFalse())
			})
		})

		Context("when the second subscription is refused", func() {
			It("reports a startup failure and never dispatches", func() {
				platform.FailClass = "lid-switch"
				platform.Post(fixtures.PowerSettingMessage(policy.LidSwitchStateChange, 0))

				runAgent(config.FromArgs(false, []string{logPath}))

				Expect(runErr).To(HaveOccurred())
				Expect(runErr.Error()).To(ContainSubstring("lid-switch"))
				Expect(platform.Dispatched).To(BeZero())
				Expect(platform.Locks()).To(BeZero())
			})
		})

		Context("when another instance holds the singleton", func() {
			It("fails with ErrAlreadyRunning", func() {
				GinkgoT().Setenv("TMPDIR", GinkgoT().TempDir())
				id := fmt.Sprintf(`Local\lidlock-integration-%d`, time.Now().UnixNano())

				first, err := daemon.AcquireSingleton(id)
				Expect(err).NotTo(HaveOccurred())
				defer first.Release()

				_, err = daemon.AcquireSingleton(id)
				Expect(err).To(MatchError(singleton.ErrAlreadyRunning))
			})
		})
	})

	Describe("power broadcast handling", func() {
		Context("lid closed on a local session", func() {
			It("locks once and logs the attempt and its result", func() {
				platform.Post(fixtures.PowerSettingMessage(policy.LidSwitchStateChange, 0))

				runAgent(config.FromArgs(false, []string{logPath}))

				Expect(runErr).NotTo(HaveOccurred())
				Expect(platform.Locks()).To(Equal(1))

				msgs := logMessages(logPath)
				Expect(msgs).To(ContainElement("Attempting to lock workstation"))
				idx := indexOf(msgs, "Attempting to lock workstation")
				Expect(msgs[idx+1]).To(Equal("Workstation locked successfully"))
			})

			It("logs a failed lock without stopping the loop", func() {
				platform.LockResult = false
				platform.Post(
					fixtures.PowerSettingMessage(policy.LidSwitchStateChange, 0),
					fixtures.PowerSettingMessage(policy.MonitorPowerOn, 0),
				)

				runAgent(config.FromArgs(false, []string{logPath}))

				Expect(platform.Locks()).To(Equal(2))
				Expect(platform.Dispatched).To(Equal(2))
				Expect(logMessages(logPath)).To(ContainElement("Failed to lock workstation"))
			})
		})

		Context("lid closed on a remote session", func() {
			It("never locks and says why", func() {
				platform.Remote = true
				platform.Post(fixtures.PowerSettingMessage(policy.LidSwitchStateChange, 0))

				runAgent(config.FromArgs(false, []string{logPath}))

				Expect(platform.Locks()).To(BeZero())
				Expect(logMessages(logPath)).To(ContainElement("Ignoring, session is remote"))
			})
		})

		Context("non-zero state", func() {
			DescribeTable("never locks regardless of session type",
				func(remote bool) {
					platform.Remote = remote
					platform.Post(fixtures.PowerSettingMessage(policy.LidSwitchStateChange, 7))

					runAgent(config.FromArgs(false, []string{logPath}))

					Expect(platform.Locks()).To(BeZero())
					msgs := logMessages(logPath)
				Expect(msgs).To(ContainElement("Power setting state: 7"))
				Expect(msgs).To(ContainElement("Ignoring non-zero state"))
				},
				Entry("local session", false),
				Entry("remote session", true),
			)
		})

		Context("a message that is not a power broadcast", func() {
			It("is forwarded to default handling without log entries", func() {
				const wmTimer = 0x0113
				platform.Post(domain.Message{ID: wmTimer, WParam: 1})

				runAgent(config.FromArgs(false, []string{logPath}))

				Expect(platform.Forwarded).To(HaveLen(1))
				Expect(platform.Forwarded[0].ID).To(Equal(uint32(wmTimer)))
				Expect(platform.Locks()).To(BeZero())
				Expect(logMessages(logPath)).NotTo(ContainElement("Received WM_POWERBROADCAST"))
			})
		})
	})
})

func indexOf(items []string, want string) int {
	for i, s := range items {
		if s == want {
			return i
		}
	}
	return -1
}
