package selfupdate

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetNameFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"darwin", "amd64", "syntaxiz_Darwin_all.tar.gz"},
		{"darwin", "arm64", "syntaxiz_Darwin_all.tar.gz"},
		{"linux", "amd64", "syntaxiz_Linux_x86_64.tar.gz"},
		{"linux", "arm64", "syntaxiz_Linux_arm64.tar.gz"},
		{"linux", "386", "syntaxiz_Linux_i386.tar.gz"},
		{"windows", "amd64", "syntaxiz_Windows_x86_64.zip"},
		{"freebsd", "amd64", ""},
		{"linux", "mips", ""},
	}
	for _, tt := range tests {
		got, err := assetNameFor(tt.goos, tt.goarch)
		if tt.want == "" {
			assert.Error(t, err, "%s/%s", tt.goos, tt.goarch)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseChecksums(t *testing.T) {
	in := "ABC123  syntaxiz_Linux_x86_64.tar.gz\n" +
		"def456 *syntaxiz_Windows_x86_64.zip\n" +
		"garbage\n\n" +
		"too  many  fields\n"
	assert.Equal(t, map[string]string{
		"syntaxiz_Linux_x86_64.tar.gz": "abc123",
		"syntaxiz_Windows_x86_64.zip":  "def456",
	}, parseChecksums([]byte(in)))
	assert.Empty(t, parseChecksums(nil))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("console.log(1)")
	sum := sha256.Sum256(data)
	good := hex.EncodeToString(sum[:])

	assert.NoError(t, verifyChecksum(data, good))
	assert.NoError(t, verifyChecksum(data, strings.ToUpper(good)))
	assert.ErrorIs(t, verifyChecksum(data, strings.Repeat("0", 64)), ErrChecksum)
}

func TestExtractBinary(t *testing.T) {
	bin := []byte("#!/bin/sh\necho syntaxiz")

	got, err := extractBinary(tarGz(t, "syntaxiz_1.2.0/syntaxiz", bin), "syntaxiz_Linux_x86_64.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	_, err = extractBinary(tarGz(t, "README.md", bin), "syntaxiz_Linux_x86_64.tar.gz")
	assert.ErrorContains(t, err, "not found")
}

func TestApplyUpdateKeepsMode(t *testing.T) {
	target := filepath.Join(t.TempDir(), "syntaxiz")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	bin := []byte("new build")
	sum := sha256.Sum256(bin)
	require.NoError(t, applyUpdate(bin, target, sum[:]))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, bin, got)
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	other := sha256.Sum256([]byte("something else"))
	assert.ErrorIs(t, applyUpdate(bin, target, other[:]), ErrChecksum)
}

// fakeReleases serves a latest-release document plus one tag's assets.
type fakeReleases struct {
	latest    string
	tag       string
	archive   []byte
	checksums string
}

func (f *fakeReleases) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	prefix := "/abhisek/syntaxiz/releases/download/" + f.tag + "/"
	switch {
	case r.URL.Path == "/repos/abhisek/syntaxiz/releases/latest":
		_, _ = w.Write([]byte(`{"tag_name":"` + f.latest + `","html_url":"https://example.com"}`))
	case r.URL.Path == prefix+"checksums.txt" && f.checksums != "":
		_, _ = w.Write([]byte(f.checksums))
	case strings.HasPrefix(r.URL.Path, prefix) && f.archive != nil:
		_, _ = w.Write(f.archive)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestUpdate(t *testing.T) {
	asset, err := assetName()
	if err != nil || !strings.HasSuffix(asset, ".tar.gz") {
		t.Skip("no tar.gz release for this platform")
	}
	bin := []byte("syntaxiz v2")
	archive := tarGz(t, "syntaxiz", bin)
	sum := sha256.Sum256(archive)
	goodSums := hex.EncodeToString(sum[:]) + "  " + asset + "\n"

	tests := []struct {
		name       string
		releases   fakeReleases
		input      UpdateInput
		wantErr    error
		wantErrMsg string
		wantStages []string
	}{
		{
			name:       "latest",
			releases:   fakeReleases{latest: "v2.0.0", tag: "v2.0.0", archive: archive, checksums: goodSums},
			input:      UpdateInput{CurrentVersion: "v1.0.0"},
			wantStages: []string{"check", "download", "verify", "extract", "apply", "done"},
		},
		{
			name:     "pinned tag skips the latest lookup",
			releases: fakeReleases{latest: "v9.9.9", tag: "v1.5.0", archive: archive, checksums: goodSums},
			input:    UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "1.5.0"},
		},
		{
			name:    "dev build",
			input:   UpdateInput{CurrentVersion: "(devel)"},
			wantErr: ErrDevBuild,
		},
		{
			name:     "already latest",
			releases: fakeReleases{latest: "v1.0.0"},
			input:    UpdateInput{CurrentVersion: "v1.0.0"},
			wantErr:  ErrAlreadyLatest,
		},
		{
			name:       "bad pinned tag",
			input:      UpdateInput{CurrentVersion: "v1.0.0", TargetVersion: "latest-ish"},
			wantErrMsg: "invalid release tag",
		},
		{
			name:     "checksum mismatch",
			releases: fakeReleases{latest: "v2.0.0", tag: "v2.0.0", archive: archive, checksums: strings.Repeat("0", 64) + "  " + asset + "\n"},
			input:    UpdateInput{CurrentVersion: "v1.0.0"},
			wantErr:  ErrChecksum,
		},
		{
			name:     "asset missing from checksums",
			releases: fakeReleases{latest: "v2.0.0", tag: "v2.0.0", archive: archive, checksums: "abc  other.zip\n"},
			input:    UpdateInput{CurrentVersion: "v1.0.0"},
			wantErr:  ErrChecksum,
		},
		{
			name:       "archive missing",
			releases:   fakeReleases{latest: "v2.0.0", tag: "v2.0.0"},
			input:      UpdateInput{CurrentVersion: "v1.0.0"},
			wantErrMsg: "download archive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(&tt.releases)
			defer server.Close()

			exe := filepath.Join(t.TempDir(), "syntaxiz")
			require.NoError(t, os.WriteFile(exe, []byte("old"), 0o755))

			checker := NewChecker(
				WithBaseURL(server.URL),
				WithDownloadBaseURL(server.URL),
				withExecPath(func() (string, error) { return exe, nil }),
			)
			var stages []string
			err := checker.Update(context.Background(), &tt.input, func(p UpdateProgress) {
				stages = append(stages, p.Stage)
			})

			got, _ := os.ReadFile(exe)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, []byte("old"), got)
			case tt.wantErrMsg != "":
				assert.ErrorContains(t, err, tt.wantErrMsg)
				assert.Equal(t, []byte("old"), got)
			default:
				require.NoError(t, err)
				assert.Equal(t, bin, got)
			}
			if tt.wantStages != nil {
				assert.Equal(t, tt.wantStages, stages)
			}
		})
	}
}

func tarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Mode:     0o755,
		Size:     int64(len(content)),
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}
