package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// NoteTypeName is the name of the note type created in the collection
const NoteTypeName = "copywords (Dictionary)"

// File names inside the package
const (
	collectionFile = "collection.anki2"
	mediaIndexFile = "media"
)

// noteFields are the note type fields in order, matching Card
var noteFields = []string{"Front", "Back", "PartOfSpeech", "Endings", "Examples", "Translation", "Sound", "Image"}

// APKGGenerator writes cards into an Anki package: a zip holding the
// collection database, a media index and the media files named by number
type APKGGenerator struct {
	deckName string
	deckID   int64
	modelID  int64
	cards    []Card

	media      map[string]int // package media name to its number
	mediaPaths []string       // source file of each media number
}

// NewAPKGGenerator creates a generator for deckName. Deck and note type IDs
// are derived from the current time.
func NewAPKGGenerator(deckName string) *APKGGenerator {
	id := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName: deckName,
		deckID:   id,
		modelID:  id + 1,
		media:    make(map[string]int),
	}
}

// AddCard queues a card for the package
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG writes the package to outputPath
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	// Notes reference media by package name, so number them first
	g.collectMedia()

	workDir, err := os.MkdirTemp("", "copywords_apkg_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	dbPath := filepath.Join(workDir, collectionFile)
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := g.writePackage(outputPath, dbPath); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to write package %s: %w", outputPath, err)
	}

	return nil
}

// createDatabase creates the Anki SQLite database
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range strings.Split(collectionSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if err := g.insertCollection(db); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotesAndCards(db); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return nil
}

// insertCollection writes the single col row holding the JSON encoded
// configuration, note types, decks and deck options
func (g *APKGGenerator) insertCollection(db *sql.DB) error {
	now := time.Now().Unix()

	decks := map[string]deck{
		"1": newDeck(1, "Default", "", now),
		strconv.FormatInt(g.deckID, 10): newDeck(g.deckID, g.deckName,
			"Danish and Spanish vocabulary cards created by copywords", now),
	}
	models := map[string]interface{}{
		strconv.FormatInt(g.modelID, 10): g.createNoteTypeConfig(),
	}
	dconf := map[string]deckOptions{"1": defaultDeckOptions(now)}

	var encoded [4]string
	for i, v := range []interface{}{newCollectionConf(g.modelID), models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode collection: %w", err)
		}
		encoded[i] = string(data)
	}

	// Schema version 11, modification times in milliseconds
	_, err := db.Exec(`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		now, now*1000, now*1000, encoded[0], encoded[1], encoded[2], encoded[3])
	return err
}

// createNoteTypeConfig creates the note type configuration
func (g *APKGGenerator) createNoteTypeConfig() map[string]interface{} {
	flds := make([]map[string]interface{}, len(noteFields))
	for i, name := range noteFields {
		size := 20
		if name == "Examples" || name == "Endings" {
			size = 16
		}
		flds[i] = map[string]interface{}{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   size,
			"media":  []string{},
		}
	}

	return map[string]interface{}{
		"id":    g.modelID,
		"name":  NoteTypeName,
		"type":  0,
		"mod":   time.Now().Unix(),
		"usn":   -1,
		"sortf": 0,
		"did":   g.deckID,
		"req":   [][]interface{}{{0, "all", []int{0}}},
		"vers":  []int{},
		"tags":  []string{},
		"latexPre": `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}`,
		"latexPost": `\end{document}`,
		"flds":      flds,
		"tmpls": []map[string]interface{}{
			{
				"name":  "Recognition",
				"ord":   0,
				"qfmt":  frontTemplate,
				"afmt":  backTemplate,
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
		},
		"css": cardCSS,
	}
}

const frontTemplate = `<div class="front">
<div class="word">{{Front}}</div>
{{#PartOfSpeech}}<div class="pos">{{PartOfSpeech}}</div>{{/PartOfSpeech}}
{{#Sound}}<div class="sound">{{Sound}}</div>{{/Sound}}
</div>`

const backTemplate = `{{FrontSide}}

<hr id="answer">

<div class="back">
{{#Image}}<div class="image-container">{{Image}}</div>{{/Image}}
<div class="meanings">{{Back}}</div>
{{#Translation}}<div class="translation">{{Translation}}</div>{{/Translation}}
{{#Endings}}<div class="endings">{{Endings}}</div>{{/Endings}}
{{#Examples}}<div class="examples">{{Examples}}</div>{{/Examples}}
</div>`

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.front, .back {
  padding: 20px;
}

.word {
  font-size: 32px;
  font-weight: bold;
  color: #1f4e79;
}

.pos, .endings {
  font-size: 16px;
  color: #7f8c8d;
  margin: 8px 0;
}

.meanings {
  text-align: left;
  margin: 15px 0;
}

.translation {
  font-size: 24px;
  color: #2c3e50;
  margin: 15px 0;
}

.examples {
  text-align: left;
  font-size: 16px;
  font-style: italic;
  margin-top: 20px;
}

.image-container img {
  max-width: 100%;
  height: auto;
  border-radius: 8px;
}

hr#answer {
  margin: 30px 0;
  border: 0;
  border-top: 1px solid #ecf0f1;
}`

// insertNotesAndCards inserts one note with one new card per Card in a
// single transaction
func (g *APKGGenerator) insertNotesAndCards(db *sql.DB) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	noteStmt, err := tx.Prepare(`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		VALUES (?, ?, ?, ?, -1, ' copywords ', ?, ?, ?, 0, '')`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	// New cards: type and queue 0, due is the position in the new queue
	cardStmt, err := tx.Prepare(`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due,
		ivl, factor, reps, lapses, left, odue, odid, flags, data)
		VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	now := time.Now()
	for i, card := range g.cards {
		// Each note ID is followed by the ID of its card
		noteID := now.UnixMilli() + int64(2*i)
		cardID := noteID + 1

		if _, err = noteStmt.Exec(noteID, uuid.NewString(), g.modelID, now.Unix(),
			g.joinFields(card), card.Front, fieldChecksum(card.Front)); err != nil {
			return fmt.Errorf("failed to insert note %q: %w", card.Front, err)
		}
		if _, err = cardStmt.Exec(cardID, noteID, g.deckID, now.Unix(), i+1); err != nil {
			return fmt.Errorf("failed to insert card %q: %w", card.Front, err)
		}
	}

	return tx.Commit()
}

// joinFields joins the note fields in noteFields order, separated by
// ASCII 31
func (g *APKGGenerator) joinFields(card Card) string {
	var sound, image string
	if name, ok := g.mediaName(card.SoundFile); ok {
		sound = fmt.Sprintf("[sound:%s]", name)
	}
	if name, ok := g.mediaName(card.ImageFile); ok {
		image = fmt.Sprintf(`<img src="%s">`, name)
	}

	return strings.Join([]string{
		card.Front,
		card.Back,
		card.PartOfSpeech,
		card.Endings,
		card.Examples,
		card.Translation,
		sound,
		image,
	}, "\x1f")
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// fieldChecksum is Anki's duplicate check: the first 8 hex digits of the
// SHA1 of the field with HTML stripped, as an integer
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(htmlTag.ReplaceAllString(field, "")))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

// packageMediaName prefixes a media file with its card directory so equal
// file names of different cards do not clash
func packageMediaName(path string) string {
	return filepath.Base(filepath.Dir(path)) + "_" + filepath.Base(path)
}

// mediaName returns the package name of a media file that is part of the
// package
func (g *APKGGenerator) mediaName(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	name := packageMediaName(path)
	_, ok := g.media[name]
	return name, ok
}

// collectMedia numbers the existing media files of all cards in card order
func (g *APKGGenerator) collectMedia() {
	for _, card := range g.cards {
		for _, path := range []string{card.SoundFile, card.ImageFile} {
			if path == "" || !fileExists(path) {
				continue
			}
			name := packageMediaName(path)
			if _, ok := g.media[name]; ok {
				continue
			}
			g.media[name] = len(g.mediaPaths)
			g.mediaPaths = append(g.mediaPaths, path)
		}
	}
}

// writePackage zips the collection database, the media index mapping
// numbers to names and the numbered media files
func (g *APKGGenerator) writePackage(outputPath, dbPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	if err := addFileToZip(zw, collectionFile, dbPath); err != nil {
		return err
	}

	index := make(map[string]string, len(g.media))
	for name, num := range g.media {
		index[strconv.Itoa(num)] = name
	}
	w, err := zw.Create(mediaIndexFile)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(w).Encode(index); err != nil {
		return fmt.Errorf("failed to encode media index: %w", err)
	}

	for num, path := range g.mediaPaths {
		if err := addFileToZip(zw, strconv.Itoa(num), path); err != nil {
			return fmt.Errorf("failed to add media file %s: %w", path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}

func addFileToZip(zw *zip.Writer, name, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
