package service

import "strconv"

const chunkIDPrefix = "doc-"

// chunkID names the chunk at index of one ingestion batch. The same document
// split the same way yields the same ids, so re-ingestion overwrites.
func chunkID(index int) string {
	return chunkIDPrefix + strconv.Itoa(index)
}
