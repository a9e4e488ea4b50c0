// Copyright 2020 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package stratdiff

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/klauspost/compress/gzip"
)

// writeTree creates each file under root, gzipping those ending in ".gz".
func writeTree(t *testing.T, root string, files map[string]string) {
	for rel, content := range files {
		path := filepath.Join(root, rel)
		assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		data := []byte(content)
		if strings.HasSuffix(rel, ".gz") {
			var buf bytes.Buffer
			gz := gzip.NewWriter(&buf)
			_, err := gz.Write(data)
			assert.NoError(t, err)
			assert.NoError(t, gz.Close())
			data = buf.Bytes()
		}
		assert.NoError(t, ioutil.WriteFile(path, data, 0644))
	}
}
