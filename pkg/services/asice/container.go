/*
 * Nuts co-sign
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package asice

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io/ioutil"
	"sort"
	"strings"
	"time"

	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// MimeType is stored, uncompressed, as first entry of every container.
const MimeType = "application/vnd.etsi.asic-e+zip"

const (
	mimeTypeFile    = "mimetype"
	metaDir         = "META-INF/"
	manifestFile    = metaDir + "manifest.xml"
	signaturePrefix = metaDir + "signatures"
)

// ErrInvalidContainer is returned when content is not a container.
var ErrInvalidContainer = errors.New("invalid container")

// NowFunc is used to store a function that returns the current time. This can be changed when you want to mock the current time.
var NowFunc = time.Now

// Signature is stored in the container for every signature.
type Signature struct {
	// Digest is the hex encoded digest which was signed
	Digest   string    `json:"digest"`
	Value    []byte    `json:"value"`
	SignedAt time.Time `json:"signedAt"`
}

// Container builds ASiC-E style zip containers: the files plus a signature file per signature.
// All signatures sign the same digest over the names and hashes of the files.
type Container struct{}

var _ types.DocumentContainer = Container{}

type handle struct {
	files      []types.ContainerFile
	signatures []Signature
	digest     []byte
}

func (h *handle) Digest() []byte {
	return h.digest
}

func (h *handle) FileNames() []string {
	names := make([]string, len(h.files))
	for i, f := range h.files {
		names[i] = f.Name
	}
	return names
}

// Build creates a container for the given files. File names must be unique.
func (c Container) Build(files []types.ContainerFile) (types.ContainerHandle, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrInvalidContainer)
	}
	seen := map[string]bool{}
	for _, f := range files {
		if f.Name == "" || f.Name == mimeTypeFile || strings.HasPrefix(f.Name, metaDir) {
			return nil, fmt.Errorf("%w: illegal file name '%s'", ErrInvalidContainer, f.Name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: duplicate file name '%s'", ErrInvalidContainer, f.Name)
		}
		seen[f.Name] = true
	}
	return newHandle(files, nil), nil
}

// FromExisting opens a container created by Finalize, keeping its files and signatures.
func (c Container) FromExisting(content []byte) (types.ContainerHandle, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}
	if len(reader.File) == 0 || reader.File[0].Name != mimeTypeFile {
		return nil, fmt.Errorf("%w: missing mimetype", ErrInvalidContainer)
	}

	var files []types.ContainerFile
	var signatures []Signature
	for _, entry := range reader.File {
		data, err := readEntry(entry)
		if err != nil {
			return nil, err
		}
		switch {
		case entry.Name == mimeTypeFile:
			if string(data) != MimeType {
				return nil, fmt.Errorf("%w: unexpected mimetype '%s'", ErrInvalidContainer, data)
			}
		case strings.HasPrefix(entry.Name, signaturePrefix):
			signature := Signature{}
			if err := json.Unmarshal(data, &signature); err != nil {
				return nil, fmt.Errorf("%w: unreadable signature %s", ErrInvalidContainer, entry.Name)
			}
			signatures = append(signatures, signature)
		case strings.HasPrefix(entry.Name, metaDir):
		default:
			files = append(files, types.ContainerFile{Name: entry.Name, Content: data})
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files", ErrInvalidContainer)
	}
	return newHandle(files, signatures), nil
}

// Finalize adds the signature to the container and returns the container bytes.
func (c Container) Finalize(containerHandle types.ContainerHandle, signature []byte) ([]byte, error) {
	h, ok := containerHandle.(*handle)
	if !ok {
		return nil, fmt.Errorf("%w: unknown handle", ErrInvalidContainer)
	}
	if len(signature) == 0 {
		return nil, errors.New("empty signature")
	}
	signatures := append(append([]Signature(nil), h.signatures...), Signature{
		Digest:   hex.EncodeToString(h.digest),
		Value:    signature,
		SignedAt: NowFunc().UTC(),
	})
	return encode(h.files, signatures)
}

// Encode returns the container with its current files and signatures.
func (c Container) Encode(containerHandle types.ContainerHandle) ([]byte, error) {
	h, ok := containerHandle.(*handle)
	if !ok {
		return nil, fmt.Errorf("%w: unknown handle", ErrInvalidContainer)
	}
	return encode(h.files, h.signatures)
}

func encode(files []types.ContainerFile, signatures []Signature) ([]byte, error) {
	buffer := new(bytes.Buffer)
	writer := zip.NewWriter(buffer)
	if err := writeEntry(writer, mimeTypeFile, []byte(MimeType), zip.Store); err != nil {
		return nil, err
	}
	manifestData, err := manifestXML(files)
	if err != nil {
		return nil, err
	}
	if err := writeEntry(writer, manifestFile, manifestData, zip.Deflate); err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := writeEntry(writer, f.Name, f.Content, zip.Deflate); err != nil {
			return nil, err
		}
	}
	for i, s := range signatures {
		data, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		if err := writeEntry(writer, fmt.Sprintf("%s%d.json", signaturePrefix, i), data, zip.Deflate); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Signatures returns the signatures stored in a container.
func Signatures(content []byte) ([]Signature, error) {
	h, err := Container{}.FromExisting(content)
	if err != nil {
		return nil, err
	}
	return h.(*handle).signatures, nil
}

func newHandle(files []types.ContainerFile, signatures []Signature) *handle {
	sorted := append([]types.ContainerFile(nil), files...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	digest := sha256.New()
	for _, f := range sorted {
		sum := sha256.Sum256(f.Content)
		fmt.Fprintf(digest, "%s:%s\n", f.Name, hex.EncodeToString(sum[:]))
	}
	return &handle{files: files, signatures: signatures, digest: digest.Sum(nil)}
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}
	defer rc.Close()
	return ioutil.ReadAll(rc)
}

func writeEntry(writer *zip.Writer, name string, data []byte, method uint16) error {
	w, err := writer.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

type manifestEntry struct {
	FullPath  string `xml:"manifest:full-path,attr"`
	MediaType string `xml:"manifest:media-type,attr"`
}

type manifest struct {
	XMLName xml.Name        `xml:"manifest:manifest"`
	Xmlns   string          `xml:"xmlns:manifest,attr"`
	Entries []manifestEntry `xml:"manifest:file-entry"`
}

func manifestXML(files []types.ContainerFile) ([]byte, error) {
	m := manifest{
		Xmlns:   "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0",
		Entries: []manifestEntry{{FullPath: "/", MediaType: MimeType}},
	}
	for _, f := range files {
		m.Entries = append(m.Entries, manifestEntry{FullPath: f.Name, MediaType: "application/octet-stream"})
	}
	data, err := xml.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}
