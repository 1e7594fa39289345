package ingest

import (
	"strings"
	"testing"
)

const fullHeader = "filename,shade,XSHADE_S,RESP_FINAL,VIDEOS,color_regions," +
	"L_1,a_1,b_1,L_2,a_2,b_2,L_3,a_3,b_3," +
	"proportion_1,proportion_2,proportion_3," +
	"L_main,a_main,b_main,L_reflect,a_reflect,b_reflect"

func TestReadRowsFullRecord(t *testing.T) {
	data := fullHeader + "\n" +
		"img_001.png,6.3,6_3,1001.0,2,1," +
		"30.5,12.1,18.2,45.0,10.0,22.5,60.2,8.4,25.0," +
		"40.0,35.0,25.0," +
		"42.0,11.0,20.0,55.0,9.0,24.0\n"

	rows, err := ReadRows(strings.NewReader(data), Options{})
	if err != nil {
		t.Fatalf("ReadRows returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	r := rows[0]
	if r.Filename != "img_001.png" || r.Shade != "6.3" || r.XShade != "6_3" {
		t.Errorf("identity columns = %q %q %q", r.Filename, r.Shade, r.XShade)
	}
	if r.Respondent != 1001 || r.Video != 2 || r.Region != 1 {
		t.Errorf("respondent/video/region = %v %v %v", r.Respondent, r.Video, r.Region)
	}
	if got := r.Clusters[0].Colour; got.L != 30.5 || got.A != 12.1 || got.B != 18.2 {
		t.Errorf("cluster 1 colour = %+v", got)
	}
	if r.Clusters[2].Proportion != 25.0 {
		t.Errorf("cluster 3 proportion = %v", r.Clusters[2].Proportion)
	}
	if r.Main == nil || r.Main.L != 42.0 {
		t.Errorf("main colour = %+v", r.Main)
	}
	if r.Reflect == nil || r.Reflect.B != 24.0 {
		t.Errorf("reflect colour = %+v", r.Reflect)
	}
}

func TestReadRowsMinimalSchema(t *testing.T) {
	// Only the cluster columns are required; everything else stays zero.
	data := "L_1,a_1,b_1,L_2,a_2,b_2,L_3,a_3,b_3,proportion_1,proportion_2,proportion_3\n" +
		"1,2,3,4,5,6,7,8,9,50,30,20\n"

	rows, err := ReadRows(strings.NewReader(data), Options{})
	if err != nil {
		t.Fatalf("ReadRows returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.Filename != "" || r.Shade != "" || r.Respondent != 0 {
		t.Errorf("optional columns not zero-valued: %+v", r)
	}
	if r.Main != nil || r.Reflect != nil {
		t.Error("main/reflect colours should be nil when columns are absent")
	}
}

func TestReadRowsMissingRequiredColumn(t *testing.T) {
	data := "L_1,a_1,b_1,L_2,a_2,b_2,L_3,a_3,b_3,proportion_1,proportion_2\n"

	_, err := ReadRows(strings.NewReader(data), Options{})
	if err == nil {
		t.Fatal("expected error for missing proportion_3 column")
	}
	if !strings.Contains(err.Error(), "proportion_3") {
		t.Errorf("error should name the missing column, got: %v", err)
	}
}

func TestReadRowsBadValue(t *testing.T) {
	data := "L_1,a_1,b_1,L_2,a_2,b_2,L_3,a_3,b_3,proportion_1,proportion_2,proportion_3\n" +
		"1,2,3,4,5,6,7,8,9,50,30,20\n" +
		"1,2,not-a-number,4,5,6,7,8,9,50,30,20\n"

	_, err := ReadRows(strings.NewReader(data), Options{})
	if err == nil {
		t.Fatal("expected error for unparseable value")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should carry the line number, got: %v", err)
	}
}

func TestReadRowsEmpty(t *testing.T) {
	_, err := ReadRows(strings.NewReader(""), Options{})
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestReadRowsShadeFilter(t *testing.T) {
	data := "shade,L_1,a_1,b_1,L_2,a_2,b_2,L_3,a_3,b_3,proportion_1,proportion_2,proportion_3\n" +
		"6.3,1,2,3,4,5,6,7,8,9,50,30,20\n" +
		"7.1,1,2,3,4,5,6,7,8,9,50,30,20\n" +
		"6.3,9,8,7,6,5,4,3,2,1,20,30,50\n"

	rows, err := ReadRows(strings.NewReader(data), Options{Shade: "6.3"})
	if err != nil {
		t.Fatalf("ReadRows returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for i, r := range rows {
		if r.Shade != "6.3" {
			t.Errorf("row %d shade = %q, want 6.3", i, r.Shade)
		}
	}
}

func TestReadRowsLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("L_1,a_1,b_1,L_2,a_2,b_2,L_3,a_3,b_3,proportion_1,proportion_2,proportion_3\n")
	for i := 0; i < 10; i++ {
		b.WriteString("1,2,3,4,5,6,7,8,9,50,30,20\n")
	}

	rows, err := ReadRows(strings.NewReader(b.String()), Options{Limit: 5})
	if err != nil {
		t.Fatalf("ReadRows returned error: %v", err)
	}
	if len(rows) != 5 {
		t.Errorf("got %d rows, want 5", len(rows))
	}
}

func TestFilterRegion(t *testing.T) {
	data := "color_regions,L_1,a_1,b_1,L_2,a_2,b_2,L_3,a_3,b_3,proportion_1,proportion_2,proportion_3\n" +
		"1,1,2,3,4,5,6,7,8,9,50,30,20\n" +
		"2,1,2,3,4,5,6,7,8,9,50,30,20\n" +
		"1,1,2,3,4,5,6,7,8,9,50,30,20\n"

	rows, err := ReadRows(strings.NewReader(data), Options{})
	if err != nil {
		t.Fatalf("ReadRows returned error: %v", err)
	}

	if got := FilterRegion(rows, 1); len(got) != 2 {
		t.Errorf("region 1: got %d rows, want 2", len(got))
	}
	if got := FilterRegion(rows, 2); len(got) != 1 {
		t.Errorf("region 2: got %d rows, want 1", len(got))
	}
	if got := FilterRegion(rows, 3); got != nil {
		t.Errorf("region 3: got %v, want nil", got)
	}
}
