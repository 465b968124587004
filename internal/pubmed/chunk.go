// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

// maxIDsPerRequest is the largest id list efetch accepts in one request.
const maxIDsPerRequest = 200

// chunkIDs splits ids into consecutive chunks of at most size, preserving
// order. Empty input yields no chunks.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
