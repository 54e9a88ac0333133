package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sidkik/pushsync/pkg/errors"
	"github.com/sidkik/pushsync/pkg/proc"
	"github.com/sidkik/pushsync/pkg/sync"
)

func TestListRemote(t *testing.T) {
	lsjsonCmd := proc.Command{Path: toolPath, Args: []string{"lsjson", "gdrive:backup"}}
	listingErrMsg := "Error fetching remote file list. All local files will be synced."

	type test struct {
		name        string
		executable  string
		mockRun     bool
		runResult   proc.Result
		runError    error
		expSnapshot sync.RemoteSnapshot
		expLogs     []*logrus.Entry

		// looseLogs skips comparing the log fields, for errors that come
		// from other packages.
		looseLogs bool
	}

	tests := []test{
		{
			name:    "Parses",
			mockRun: true,
			runResult: proc.Result{Stdout: `[
				{"Path":"a.txt","Name":"a.txt","Size":5,"MimeType":"text/plain","ModTime":"2021-02-03T05:05:06.123456789+01:00","IsDir":false},
				{"Path":"b.txt","Name":"b.txt","Size":7,"ModTime":"2021-02-03T04:05:06Z","IsDir":false},
				{"Path":"photos","Name":"photos","Size":-1,"ModTime":"2021-02-03T04:05:06Z","IsDir":true}
			]`},
			expSnapshot: sync.RemoteSnapshot{
				"a.txt": time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC),
				"b.txt": time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC),
			},
		},
		{
			// Timestamps without an offset are UTC.
			name:    "ParsesTimestampsWithoutOffset",
			mockRun: true,
			runResult: proc.Result{Stdout: `[
				{"Path":"a.txt","ModTime":"2021-02-03T04:05:06","IsDir":false},
				{"Path":"b.txt","ModTime":"2021-02-03T04:05:06.5","IsDir":false},
				{"Path":"c.txt","ModTime":"2021-02-03 04:05:06","IsDir":false},
				{"Path":"d.txt","ModTime":"2021-02-03 05:05:06+01:00","IsDir":false}
			]`},
			expSnapshot: sync.RemoteSnapshot{
				"a.txt": time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC),
				"b.txt": time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC),
				"c.txt": time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC),
				"d.txt": time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC),
			},
		},
		{
			name:        "EmptyDirectory",
			mockRun:     true,
			runResult:   proc.Result{Stdout: "[]\n"},
			expSnapshot: sync.RemoteSnapshot{},
		},
		{
			// The entry is left out so that the local copy gets transferred.
			name:    "UnparsableModTimeDropped",
			mockRun: true,
			runResult: proc.Result{Stdout: `[
				{"Path":"a.txt","ModTime":"yesterday","IsDir":false},
				{"Path":"b.txt","ModTime":"2021-02-03T04:05:06Z","IsDir":false}
			]`},
			expSnapshot: sync.RemoteSnapshot{
				"b.txt": time.Date(2021, 2, 3, 4, 5, 6, 0, time.UTC),
			},
			looseLogs: true,
			expLogs: []*logrus.Entry{
				{
					Level:   logrus.WarnLevel,
					Message: "Ignoring remote file with an unparsable modification time",
				},
			},
		},
		{
			// Conservative-empty policy: a failed listing is reported as an
			// empty remote, never as an error.
			name:    "NonZeroExitReturnsEmptySnapshot",
			mockRun: true,
			runResult: proc.Result{
				Stderr:   "ERROR : : error listing: directory not found\n",
				ExitCode: 3,
			},
			runError:    errors.New("exit status 3"),
			expSnapshot: sync.RemoteSnapshot{},
			expLogs: []*logrus.Entry{
				{
					Level: logrus.ErrorLevel,
					Data: logrus.Fields{"error": errors.TransferFailed{
						Command:  lsjsonCmd.String(),
						ExitCode: 3,
						Detail:   "ERROR : : error listing: directory not found",
					}},
					Message: listingErrMsg,
				},
			},
		},
		{
			name:        "MalformedOutputReturnsEmptySnapshot",
			mockRun:     true,
			runResult:   proc.Result{Stdout: "Failed to create file system"},
			expSnapshot: sync.RemoteSnapshot{},
			looseLogs:   true,
			expLogs: []*logrus.Entry{
				{Level: logrus.ErrorLevel, Message: listingErrMsg},
			},
		},
		{
			name:        "MissingToolReturnsEmptySnapshot",
			executable:  "/missing/rclone",
			expSnapshot: sync.RemoteSnapshot{},
			expLogs: []*logrus.Entry{
				{
					Level:   logrus.ErrorLevel,
					Data:    logrus.Fields{"error": errors.ToolNotFound{Path: "/missing/rclone"}},
					Message: listingErrMsg,
				},
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			config := testConfig
			if test.executable != "" {
				config.Executable = test.executable
			}
			tool, runner, hook := setupTool(t, config)
			if test.mockRun {
				runner.On("Run", mock.Anything, lsjsonCmd).Return(test.runResult, test.runError).Once()
			}

			snapshot := tool.ListRemote(context.Background())
			assert.Equal(t, test.expSnapshot, snapshot)
			runner.AssertExpectations(t)
			if !test.mockRun {
				runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
			}

			if test.looseLogs {
				entries := hook.AllEntries()
				assert.Len(t, entries, len(test.expLogs))
				for i, exp := range test.expLogs {
					assert.Equal(t, exp.Level, entries[i].Level)
					assert.Equal(t, exp.Message, entries[i].Message)
				}
				return
			}
			assertLogs(t, test.expLogs, hook.AllEntries(), test.name)
		})
	}
}
