package portreclaim

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

const lsofOutput = `COMMAND     PID USER   FD   TYPE             DEVICE SIZE/OFF NODE NAME
python3   41235 dev     6u  IPv4 0x8c2f7a1b3c4d5e6f      0t0  TCP *:8000 (LISTEN)
python3   41235 dev     7u  IPv6 0x8c2f7a1b3c4d5e70      0t0  TCP [::1]:8000 (LISTEN)
python3   41235 dev     9u  IPv4 0x8c2f7a1b3c4d5e71      0t0  TCP 127.0.0.1:8000->127.0.0.1:53122 (ESTABLISHED)
chrome     9001 dev    41u  IPv4 0x8c2f7a1b3c4d5e72      0t0  TCP 127.0.0.1:53122->127.0.0.1:8000 (ESTABLISHED)
node       5120 dev    22u  IPv4 0x8c2f7a1b3c4d5e73      0t0  TCP *:80001 (LISTEN)
uvicorn    7777 dev     3u  IPv4 0x8c2f7a1b3c4d5e74      0t0  TCP 127.0.0.1:8000 (LISTEN)
`

const lsofUDPOutput = `COMMAND   PID USER   FD   TYPE DEVICE SIZE/OFF NODE NAME
dnsmasq  3131 root    4u  IPv4  24810      0t0  UDP *:5353
avahi    3132 root    5u  IPv4  24811      0t0  UDP 127.0.0.1:53530
`

func TestParseLsof(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		out    string
		port   int
		method Method
		want   []int
	}{
		"listeners only, deduplicated": {out: lsofOutput, port: 8000, method: TCP, want: []int{7777, 41235}},
		"port prefix does not match":   {out: lsofOutput, port: 800, method: TCP},
		"longer port matched exactly":  {out: lsofOutput, port: 80001, method: TCP, want: []int{5120}},
		"udp bound socket":             {out: lsofUDPOutput, port: 5353, method: UDP, want: []int{3131}},
		"udp ignores tcp rows":         {out: lsofOutput, port: 8000, method: UDP},
		"empty output":                 {out: "", port: 8000, method: TCP},
		"header only":                  {out: "COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME\n", port: 8000, method: TCP},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := parseLsof([]byte(tc.out), tc.port, tc.method)
			if err != nil {
				t.Fatalf("parseLsof() error: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("parseLsof() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseLsof_BadPID(t *testing.T) {
	t.Parallel()

	out := "COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME\npython3 abc dev 6u IPv4 0x1 0t0 TCP *:8000 (LISTEN)\n"
	if _, err := parseLsof([]byte(out), 8000, TCP); err == nil {
		t.Fatal("expected error for non-numeric pid")
	}
}

const netstatOutput = `
Active Connections

  Proto  Local Address          Foreign Address        State           PID
  TCP    0.0.0.0:135            0.0.0.0:0              LISTENING       1020
  TCP    0.0.0.0:8000           0.0.0.0:0              LISTENING       4312
  TCP    127.0.0.1:8000         127.0.0.1:61544        ESTABLISHED     4312
  TCP    127.0.0.1:61544        127.0.0.1:8000         ESTABLISHED     8800
  TCP    127.0.0.1:8000         127.0.0.1:61500        TIME_WAIT       0
  TCP    0.0.0.0:80001          0.0.0.0:0              LISTENING       5555
  TCP    [::]:8000              [::]:0                 LISTENING       4313
  UDP    0.0.0.0:5353           *:*                                    2208
  UDP    [::]:5353              *:*                                    2208
`

func TestParseNetstat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		port   int
		method Method
		want   []int
	}{
		"tcp listeners on v4 and v6": {port: 8000, method: TCP, want: []int{4312, 4313}},
		"exact port match":           {port: 80001, method: TCP, want: []int{5555}},
		"no listener":                {port: 9999, method: TCP},
		"udp deduplicated":           {port: 5353, method: UDP, want: []int{2208}},
		"udp ignores tcp rows":       {port: 8000, method: UDP},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := parseNetstat([]byte(netstatOutput), tc.port, tc.method)
			if err != nil {
				t.Fatalf("parseNetstat() error: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("parseNetstat() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLsofLister_Arguments(t *testing.T) {
	t.Parallel()

	var gotName string
	var gotArgs []string
	l := LsofLister{Run: func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName, gotArgs = name, args
		return []byte(lsofUDPOutput), nil
	}}

	pids, err := l.Listeners(context.Background(), 5353, UDP)
	if err != nil {
		t.Fatalf("Listeners() error: %v", err)
	}
	if !slices.Equal(pids, []int{3131}) {
		t.Errorf("Listeners() = %v, want [3131]", pids)
	}
	if gotName != "lsof" {
		t.Errorf("binary = %q, want lsof", gotName)
	}
	if want := []string{"-nP", "-i", "udp:5353"}; !slices.Equal(gotArgs, want) {
		t.Errorf("args = %v, want %v", gotArgs, want)
	}
}

func TestLsofLister_RunFailure(t *testing.T) {
	t.Parallel()

	l := LsofLister{Run: func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New(`exec: "lsof": executable file not found in $PATH`)
	}}

	_, err := l.Listeners(context.Background(), 8000, TCP)
	if err == nil || !strings.Contains(err.Error(), "run lsof") {
		t.Fatalf("Listeners() error = %v, want run lsof failure", err)
	}
}

func TestNetstatLister_Arguments(t *testing.T) {
	t.Parallel()

	var gotArgs []string
	l := NetstatLister{Run: func(_ context.Context, _ string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(netstatOutput), nil
	}}

	pids, err := l.Listeners(context.Background(), 8000, TCP)
	if err != nil {
		t.Fatalf("Listeners() error: %v", err)
	}
	if !slices.Equal(pids, []int{4312, 4313}) {
		t.Errorf("Listeners() = %v, want [4312 4313]", pids)
	}
	if !slices.Equal(gotArgs, []string{"-nao"}) {
		t.Errorf("args = %v, want [-nao]", gotArgs)
	}
}

func TestPlatformLister(t *testing.T) {
	t.Parallel()

	if _, ok := PlatformLister("windows").(NetstatLister); !ok {
		t.Error("windows should use NetstatLister")
	}
	for _, goos := range []string{"linux", "darwin", "freebsd"} {
		if _, ok := PlatformLister(goos).(LsofLister); !ok {
			t.Errorf("%s should use LsofLister", goos)
		}
	}
}
