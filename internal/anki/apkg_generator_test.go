package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewAPKGGenerator(t *testing.T) {
	gen := NewAPKGGenerator("Test Deck")

	if gen == nil {
		t.Fatal("NewAPKGGenerator returned nil")
	}
	if gen.deckName != "Test Deck" {
		t.Errorf("Expected deck name 'Test Deck', got '%s'", gen.deckName)
	}
	if len(gen.cards) != 0 {
		t.Errorf("Expected empty cards slice, got %d cards", len(gen.cards))
	}
	if len(gen.media) != 0 {
		t.Errorf("Expected empty media files, got %d files", len(gen.media))
	}
}

func TestNoteTypeFieldsMatchTemplates(t *testing.T) {
	gen := NewAPKGGenerator("Test Deck")
	config := gen.createNoteTypeConfig()

	flds := config["flds"].([]map[string]interface{})
	if len(flds) != len(noteFields) {
		t.Fatalf("Expected %d fields, got %d", len(noteFields), len(flds))
	}

	templates := frontTemplate + backTemplate
	for _, name := range noteFields {
		if !strings.Contains(templates, "{{"+name+"}}") {
			t.Errorf("Field %s is not used by any template", name)
		}
	}
}

func TestFieldChecksum(t *testing.T) {
	// Stable and independent of markup
	if fieldChecksum("haj") != fieldChecksum("<b>haj</b>") {
		t.Error("Expected checksum to ignore HTML tags")
	}
	if fieldChecksum("haj") == fieldChecksum("hval") {
		t.Error("Expected different checksums for different words")
	}
	if fieldChecksum("haj") < 0 {
		t.Error("Expected non-negative checksum")
	}
}

func TestGenerateAPKG(t *testing.T) {
	tempDir := t.TempDir()

	hajDir := filepath.Join(tempDir, "1700000000000_haj")
	cocheDir := filepath.Join(tempDir, "1700000000001_coche")
	os.MkdirAll(hajDir, 0755)
	os.MkdirAll(cocheDir, 0755)

	hajSound := filepath.Join(hajDir, "haj.mp3")
	cocheSound := filepath.Join(cocheDir, "coche.mp4")
	cocheImage := filepath.Join(cocheDir, "coche.jpg")
	os.WriteFile(hajSound, []byte("test sound data"), 0644)
	os.WriteFile(cocheSound, []byte("test sound data"), 0644)
	os.WriteFile(cocheImage, []byte("test image data"), 0644)

	gen := NewAPKGGenerator("Test Deck")
	gen.AddCard(Card{Front: "haj", Back: "stor rovfisk", SoundFile: hajSound})
	gen.AddCard(Card{Front: "coche", Back: "car (vehicle)", SoundFile: cocheSound, ImageFile: cocheImage})

	outputPath := filepath.Join(tempDir, "test.apkg")
	if err := gen.GenerateAPKG(outputPath); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("Failed to open APKG as zip: %v", err)
	}
	defer reader.Close()

	requiredFiles := map[string]bool{
		"collection.anki2": false,
		"media":            false,
		"0":                false,
		"1":                false,
		"2":                false,
	}

	var mediaMapping map[string]string
	for _, file := range reader.File {
		if _, ok := requiredFiles[file.Name]; ok {
			requiredFiles[file.Name] = true
		}
		if file.Name == "media" {
			rc, err := file.Open()
			if err != nil {
				t.Fatalf("Failed to open media mapping: %v", err)
			}
			data, _ := io.ReadAll(rc)
			rc.Close()
			if err := json.Unmarshal(data, &mediaMapping); err != nil {
				t.Fatalf("Failed to decode media mapping: %v", err)
			}
		}
	}

	for name, found := range requiredFiles {
		if !found {
			t.Errorf("Required file '%s' not found in APKG", name)
		}
	}

	if mediaMapping["0"] != "1700000000000_haj_haj.mp3" {
		t.Errorf("Expected media 0 to be the haj sound, got '%s'", mediaMapping["0"])
	}
}

func TestCreateDatabase(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.anki2")

	gen := NewAPKGGenerator("Test Deck")
	gen.AddCard(Card{
		Front:        "haj",
		Back:         "1. stor rovfisk<br>2. grisk person",
		PartOfSpeech: "substantiv, fælleskøn",
		Translation:  "shark / акула",
	})

	if err := gen.createDatabase(dbPath); err != nil {
		t.Fatalf("createDatabase() error = %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var noteCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&noteCount); err != nil {
		t.Fatalf("Failed to count notes: %v", err)
	}
	if noteCount != 1 {
		t.Errorf("Expected 1 note, got %d", noteCount)
	}

	var cardCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&cardCount); err != nil {
		t.Fatalf("Failed to count cards: %v", err)
	}
	if cardCount != 1 {
		t.Errorf("Expected 1 card, got %d", cardCount)
	}

	var guid, flds, sfld string
	if err := db.QueryRow("SELECT guid, flds, sfld FROM notes").Scan(&guid, &flds, &sfld); err != nil {
		t.Fatalf("Failed to read note: %v", err)
	}

	if len(guid) != 36 {
		t.Errorf("Expected UUID guid, got '%s'", guid)
	}
	if sfld != "haj" {
		t.Errorf("Expected sort field 'haj', got '%s'", sfld)
	}

	fields := strings.Split(flds, "\x1f")
	if len(fields) != len(noteFields) {
		t.Fatalf("Expected %d fields, got %d", len(noteFields), len(fields))
	}
	if fields[5] != "shark / акула" {
		t.Errorf("Expected translation field 'shark / акула', got '%s'", fields[5])
	}
}
