package cpf

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"formatted", "529.982.247-25", "52998224725"},
		{"digits only", "52998224725", "52998224725"},
		{"empty", "", ""},
		{"letters and spaces", "abc 123 def 456", "123456"},
		{"only punctuation", "..--//", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsValid_KnownNumbers(t *testing.T) {
	// Public reference numbers: the valid ones pass the weighted checksum,
	// the invalid ones differ only in a check digit.
	valid := []string{
		"52998224725",
		"529.982.247-25",
		"11144477735",
		"111.444.777-35",
		// Check digit computes to 11-1=10 and must map to 0.
		"12345678909",
	}
	for _, v := range valid {
		if !IsValid(v) {
			t.Errorf("IsValid(%q) = false, want true", v)
		}
	}

	invalid := []string{
		"52998224724", // wrong second check digit
		"52998224735", // wrong first check digit
		"11144477734",
		"12345678900",
	}
	for _, v := range invalid {
		if IsValid(v) {
			t.Errorf("IsValid(%q) = true, want false", v)
		}
	}
}

func TestIsValid_RejectsTrivialSequences(t *testing.T) {
	// All-identical digits are formally checksum-consistent but reserved.
	for d := '0'; d <= '9'; d++ {
		seq := ""
		for i := 0; i < 11; i++ {
			seq += string(d)
		}
		if IsValid(seq) {
			t.Errorf("IsValid(%q) = true, want false", seq)
		}
	}
}

func TestIsValid_RejectsWrongLength(t *testing.T) {
	for _, v := range []string{"", "5299822472", "529982247255", "1"} {
		if IsValid(v) {
			t.Errorf("IsValid(%q) = true, want false", v)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"52998224725", "529.982.247-25"},
		{"529.982.247-25", "529.982.247-25"}, // already formatted round-trips
		{"11111111111", "111.111.111-11"},    // Format does not checksum-validate
		{"5299822472", ""},                   // too short
		{"", ""},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanFormatRoundTrip(t *testing.T) {
	// format(clean(x)) yields canonical punctuation for 11-digit values.
	in := "529-982-247.25"
	if got := Format(Clean(in)); got != "529.982.247-25" {
		t.Errorf("Format(Clean(%q)) = %q, want %q", in, got, "529.982.247-25")
	}
}
