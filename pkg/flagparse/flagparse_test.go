package flagparse

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseDircopy(t *testing.T) {
	testCases := []struct {
		name          string
		args          []string
		expected      DircopyOptions
		expectedError string
	}{
		{
			name: "Image Copy Defaults",
			args: []string{"/data/src", "/data/dst"},
			expected: DircopyOptions{
				Sources: []string{"/data/src"},
				Dest:    "/data/dst",
			},
		},
		{
			name: "Multiple Sources",
			args: []string{"/a", "/b", "/c", "/dst"},
			expected: DircopyOptions{
				Sources: []string{"/a", "/b", "/c"},
				Dest:    "/dst",
			},
		},
		{
			name: "Long Flags",
			args: []string{"--dry-run", "--verbose", "--nolog", "/src", "/dst"},
			expected: DircopyOptions{
				DryRun:  true,
				Verbose: true,
				NoLog:   true,
				Sources: []string{"/src"},
				Dest:    "/dst",
			},
		},
		{
			name: "Short Dry Run Alias",
			args: []string{"-n", "/src", "/dst"},
			expected: DircopyOptions{
				DryRun:  true,
				Sources: []string{"/src"},
				Dest:    "/dst",
			},
		},
		{
			name: "Unambiguous Prefixes",
			args: []string{"-dry", "-verb", "-qu", "-nol", "/src", "/dst"},
			expected: DircopyOptions{
				DryRun:  true,
				Verbose: true,
				Quiet:   true,
				NoLog:   true,
				Sources: []string{"/src"},
				Dest:    "/dst",
			},
		},
		{
			name: "Dsync Implies Sync",
			args: []string{"-Dsync", "/src", "/dst"},
			expected: DircopyOptions{
				Sync:    true,
				DSync:   true,
				Sources: []string{"/src"},
				Dest:    "/dst",
			},
		},
		{
			name: "String Flag With Separate Value",
			args: []string{"-rsoptions", "--compress --partial", "/src", "/dst"},
			expected: DircopyOptions{
				RsOptions: "--compress --partial",
				Sources:   []string{"/src"},
				Dest:      "/dst",
			},
		},
		{
			name: "String Flag With Inline Value",
			args: []string{"-logname=/tmp/copy.log", "/src", "/dst"},
			expected: DircopyOptions{
				LogName: "/tmp/copy.log",
				Sources: []string{"/src"},
				Dest:    "/dst",
			},
		},
		{
			name: "Compress Log Format",
			args: []string{"-compress-log", "gz", "/src", "/dst"},
			expected: DircopyOptions{
				CompressLog: "gz",
				Sources:     []string{"/src"},
				Dest:        "/dst",
			},
		},
		{
			name:          "Invalid Compress Log Format",
			args:          []string{"-compress-log", "bz2", "/src", "/dst"},
			expectedError: "invalid -compress-log format",
		},
		{
			name:          "Ambiguous Prefix",
			args:          []string{"-no", "/src", "/dst"},
			expectedError: "ambiguous option: -no",
		},
		{
			name:          "Unknown Flag",
			args:          []string{"-bogus", "/src", "/dst"},
			expectedError: "unknown option: -bogus",
		},
		{
			name:          "Missing Destination",
			args:          []string{"/src"},
			expectedError: "need at least one source",
		},
		{
			name:          "Sync With Two Sources",
			args:          []string{"-sync", "/a", "/b", "/dst"},
			expectedError: "sync mode takes exactly one source",
		},
		{
			name:          "Value On Bool Flag",
			args:          []string{"-sync=yes", "/src", "/dst"},
			expectedError: "takes no value",
		},
		{
			name:          "Missing Value",
			args:          []string{"/src", "/dst", "-logname"},
			expectedError: "option -logname requires a value",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts, err := ParseDircopy(tc.args)

			if tc.expectedError != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tc.expectedError)
				}
				if !strings.Contains(err.Error(), tc.expectedError) {
					t.Errorf("expected error containing %q, got %v", tc.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !equalOptions(opts, tc.expected) {
				t.Errorf("options mismatch:\n got: %+v\nwant: %+v", opts, tc.expected)
			}
		})
	}
}

func equalOptions(a, b DircopyOptions) bool {
	if len(a.Sources) != len(b.Sources) {
		return false
	}
	for i := range a.Sources {
		if a.Sources[i] != b.Sources[i] {
			return false
		}
	}
	a.Sources, b.Sources = nil, nil
	return reflect.DeepEqual(a, b)
}

func TestParseDircopyHelp(t *testing.T) {
	for _, arg := range []string{"-h", "--help", "-help"} {
		if _, err := ParseDircopy([]string{arg}); !errors.Is(err, ErrHelp) {
			t.Errorf("ParseDircopy(%q) = %v, want ErrHelp", arg, err)
		}
	}
}

func TestParseSyncme(t *testing.T) {
	testCases := []struct {
		name          string
		args          []string
		expected      SyncmeOptions
		expectedError string
	}{
		{
			name:     "Up",
			args:     []string{"up"},
			expected: SyncmeOptions{Mode: ModeUp},
		},
		{
			name:     "Down With Flags",
			args:     []string{"--dry-run", "--ssh", "down"},
			expected: SyncmeOptions{Mode: ModeDown, DryRun: true, SSH: true},
		},
		{
			name:     "Sync With Server Base",
			args:     []string{"sync", "-server-base", "host:/backup"},
			expected: SyncmeOptions{Mode: ModeSync, ServerBase: "host:/backup"},
		},
		{
			name:     "Abbreviated Flags",
			args:     []string{"-deb", "-ss", "up"},
			expected: SyncmeOptions{Mode: ModeUp, Debug: true, SSH: true},
		},
		{
			name:          "Missing Mode",
			args:          []string{"--verbose"},
			expectedError: "exactly one mode argument is required",
		},
		{
			name:          "Invalid Mode",
			args:          []string{"sideways"},
			expectedError: "invalid mode",
		},
		{
			name:          "Too Many Positionals",
			args:          []string{"up", "down"},
			expectedError: "exactly one mode argument is required",
		},
		{
			name:          "Ambiguous Prefix",
			args:          []string{"-s", "up"},
			expectedError: "ambiguous option: -s",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts, err := ParseSyncme(tc.args)

			if tc.expectedError != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tc.expectedError)
				}
				if !strings.Contains(err.Error(), tc.expectedError) {
					t.Errorf("expected error containing %q, got %v", tc.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if opts != tc.expected {
				t.Errorf("options mismatch:\n got: %+v\nwant: %+v", opts, tc.expected)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{"up": ModeUp, "down": ModeDown, "sync": ModeSync} {
		got, err := ParseMode(s)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, nil", s, got, err, want)
		}
	}
	if _, err := ParseMode("none"); err == nil {
		t.Error("expected 'none' to be rejected as a mode")
	}
}
