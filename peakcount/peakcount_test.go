package peakcount

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/groseq/grotools/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.SetVerbosity(logger.Quiet)
}

const peaks = `chr1	13365	13366	n	0	-
chr1	10554	10555	n	2	-
chr1	10554	10555	n	2	-
chr10	5	6	n	0	-
chr1	13365	13366	n	0	-
chr1	13365	13366	n	0	-
`

func count(t *testing.T, in string) (*Counts, string) {
	c, err := Read(strings.NewReader(in), "test")
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, c.Write(&b))
	return c, b.String()
}

func TestCount(t *testing.T) {
	c, out := count(t, peaks)
	assert.True(t, c.Reliable)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "chr1\t10554\t10555\t2\t-\nchr1\t13365\t13366\t3\t-\nchr10\t5\t6\t1\t-\n", out)
}

func TestStrandConflict(t *testing.T) {
	c, out := count(t, "chr1\t1\t2\tn\t0\t+\nchr1\t1\t2\tn\t0\t-\n")
	assert.False(t, c.Reliable)
	assert.Equal(t, "chr1\t1\t2\t2\n", out)
}

func TestMissingStrand(t *testing.T) {
	c, out := count(t, "chr1\t1\t2\tn\t0\t+\nchr1\t5\t6\nchr1\t1\n")
	assert.False(t, c.Reliable)
	assert.Equal(t, 1, c.Skipped)
	assert.Equal(t, "chr1\t1\t2\t1\nchr1\t5\t6\t1\n", out)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "peaks.groseq"), filepath.Join(dir, "peak_count.output")
	require.NoError(t, os.WriteFile(in, []byte(peaks), 0644))
	require.NoError(t, run(cliargs{Input: in, Output: out}))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(b), "\n"))
}
