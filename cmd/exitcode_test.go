package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/abhishek-geeks/organize-cli/config"
	"github.com/abhishek-geeks/organize-cli/pkg/database"
	"github.com/abhishek-geeks/organize-cli/pkg/ledger"
	"github.com/abhishek-geeks/organize-cli/pkg/scanner"
)

func TestExitCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"canceled", context.Canceled, ExitCanceled},
		{"wrapped canceled", fmt.Errorf("整理中断: %w", context.Canceled), ExitCanceled},
		{"usage", fmt.Errorf("%w: unknown flag --foo", errUsage), ExitUsage},
		{"missing target", &scanner.TargetError{Path: "/missing", Err: scanner.ErrInvalidTarget}, ExitUsage},
		{"invalid config", fmt.Errorf("%w: bad workers", config.ErrInvalidConfig), ExitUsage},
		{"unknown run", fmt.Errorf("%w: abcd", database.ErrRunNotFound), ExitUsage},
		{"ambiguous run", fmt.Errorf("%w: a", database.ErrAmbiguousRun), ExitUsage},
		{"permission target", &scanner.TargetError{Path: "/root", Err: fs.ErrPermission}, ExitPermission},
		{"permission wrapped", fmt.Errorf("读取台账失败: %w", fs.ErrPermission), ExitPermission},
		{"corrupt ledger", &ledger.CorruptError{Path: "/d/.organize_log.json", Err: errors.New("unexpected EOF")}, ExitFailure},
		{"generic", errors.New("disk on fire"), ExitFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestRootCmd_FlagErrorIsUsage(t *testing.T) {
	rootCmd.SetArgs([]string{"--no-such-flag"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	if ExitCode(err) != ExitUsage {
		t.Errorf("Expected usage exit code for unknown flag, got %d (%v)", ExitCode(err), err)
	}
}

func TestRootCmd_TooManyArgsIsUsage(t *testing.T) {
	rootCmd.SetArgs([]string{"a", "b"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	if ExitCode(err) != ExitUsage {
		t.Errorf("Expected usage exit code for extra args, got %d (%v)", ExitCode(err), err)
	}
}
