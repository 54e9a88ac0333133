package proc

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandString(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		exp  string
	}{
		{
			name: "Plain",
			cmd:  Command{Path: "rclone", Args: []string{"lsjson", "gdrive:dst"}},
			exp:  "rclone lsjson gdrive:dst",
		},
		{
			name: "Spaces",
			cmd: Command{
				Path: "/opt/my tools/rclone",
				Args: []string{"copy", "/home/me/My Notes.txt", "gdrive:dst"},
			},
			exp: `"/opt/my tools/rclone" copy "/home/me/My Notes.txt" gdrive:dst`,
		},
		{
			name: "EmptyArg",
			cmd:  Command{Path: "tool", Args: []string{""}},
			exp:  `tool ""`,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, test.cmd.String())
		})
	}
}

func TestTail(t *testing.T) {
	assert.Equal(t, "", Tail("", 2))
	assert.Equal(t, "one", Tail("one\n", 2))
	assert.Equal(t, "two; three", Tail("one\ntwo\n\nthree\n", 2))
}

func TestExecRunner(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh is not available")
	}

	res, err := ExecRunner{}.Run(context.Background(), Command{
		Path: sh,
		Args: []string{"-c", "echo out; echo err >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, Result{Stdout: "out\n", Stderr: "err\n"}, res)

	res, err = ExecRunner{}.Run(context.Background(), Command{
		Path: sh,
		Args: []string{"-c", "echo failed >&2; exit 3"},
	})
	assert.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "failed\n", res.Stderr)

	res, err = ExecRunner{}.Run(context.Background(), Command{Path: "/does/not/exist"})
	assert.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}
