package ingestion

import (
	"testing"
)

func TestParseCSVBasic(t *testing.T) {
	text := "review_id,product_name,review_text,rating,review_date\n" +
		"1,WidgetA,\"This is excellent and fast\",5,2024-01-15\n" +
		"2,WidgetA,\"Terrible and broken\",1,2024-02-10"
	records := ParseCSV(text)
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}
	if records[0]["review_text"] != "This is excellent and fast" {
		t.Errorf("review_text: got %q", records[0]["review_text"])
	}
	if records[1]["rating"] != "1" || records[1]["product_name"] != "WidgetA" {
		t.Errorf("record 1: got %v", records[1])
	}
}

func TestParseCSVQuotedCommas(t *testing.T) {
	records := ParseCSV("name,text\nA,\"good, fast, cheap\"\n")
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	if records[0]["text"] != "good, fast, cheap" {
		t.Errorf("text: got %q", records[0]["text"])
	}
}

func TestParseCSVQuotesToggleOnly(t *testing.T) {
	// A doubled quote closes and reopens the quoted state; it is not an escape.
	records := ParseCSV("a,b\n\"say \"\"hi\"\", ok\",2\n")
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	if records[0]["a"] != "say hi, ok" {
		t.Errorf("a: got %q, want %q", records[0]["a"], "say hi, ok")
	}
}

func TestParseCSVHeaderNormalised(t *testing.T) {
	records := ParseCSV("\"Review_Text\" , PRODUCT\nnice,Thing\n")
	if len(records) != 1 {
		t.Fatalf("records: got %d", len(records))
	}
	if records[0]["review_text"] != "nice" || records[0]["product"] != "Thing" {
		t.Errorf("got %v", records[0])
	}
}

func TestParseCSVDropsMismatchedRows(t *testing.T) {
	text := "a,b,c\n1,2,3\n1,2\n1,2,3,4\n4,5,6\n"
	records, stats := ParseCSVStats(text)
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}
	if stats.Dropped != 2 || stats.Accepted != 2 {
		t.Errorf("stats: got %+v", stats)
	}
	if records[1]["a"] != "4" {
		t.Errorf("second record: got %v", records[1])
	}
}

func TestParseCSVCRLF(t *testing.T) {
	records := ParseCSV("a,b\r\n1,2\r\n3,4\r\n")
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}
	if records[0]["b"] != "2" {
		t.Errorf("b: got %q", records[0]["b"])
	}
}

func TestParseCSVTooShort(t *testing.T) {
	for _, text := range []string{"", "a,b,c", "a,b,c\n", "\n\n"} {
		if got := ParseCSV(text); len(got) != 0 {
			t.Errorf("%q: got %d records, want 0", text, len(got))
		}
	}
}

func TestParseCSVEmptyValues(t *testing.T) {
	records := ParseCSV("a,b,c\n,,\n")
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	if v, ok := records[0]["b"]; !ok || v != "" {
		t.Errorf("b: got (%q, %v)", v, ok)
	}
}

func TestParseCSVBlankLinesMultiColumn(t *testing.T) {
	records, stats := ParseCSVStats("a,b\nx,1\n\n  \ny,2\n")
	if len(records) != 2 || stats.Dropped != 2 {
		t.Errorf("got %d records, %d dropped, want 2 and 2", len(records), stats.Dropped)
	}
}

func TestParseCSVBlankLinesSingleColumn(t *testing.T) {
	// With one column a blank line matches the header's field count.
	records, stats := ParseCSVStats("review_text\ngood\n\nbad\n")
	if len(records) != 3 || stats.Dropped != 0 {
		t.Fatalf("got %d records, %d dropped, want 3 and 0", len(records), stats.Dropped)
	}
	if records[1]["review_text"] != "" {
		t.Errorf("blank row: got %q", records[1]["review_text"])
	}
}

func TestParseCSVRowCountMatchesValidRows(t *testing.T) {
	text := "id,review_text\n"
	for i := 0; i < 250; i++ {
		text += "1,\"ok, fine\"\n"
	}
	if got := len(ParseCSV(text)); got != 250 {
		t.Errorf("records: got %d, want 250", got)
	}
}
