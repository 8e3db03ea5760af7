package protocol

import "testing"

func TestSplitBuildClassWordRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		class  Class
		topBit bool
	}{
		{"IN, no top bit", ClassIN, false},
		{"IN, top bit set", ClassIN, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word := BuildClassWord(tt.class, tt.topBit)
			gotClass, gotTopBit := SplitClassWord(word)
			if gotClass != tt.class || gotTopBit != tt.topBit {
				t.Errorf("round trip = (%v, %v), want (%v, %v)", gotClass, gotTopBit, tt.class, tt.topBit)
			}
		})
	}
}

func TestParseTypeFoldsUnknown(t *testing.T) {
	if got := ParseType(9999); got != TypeNone {
		t.Errorf("ParseType(9999) = %v, want TypeNone", got)
	}
}

func TestIsSupported(t *testing.T) {
	supported := []Type{TypeA, TypeAAAA, TypePTR, TypeSRV, TypeTXT, TypeNSEC}
	for _, typ := range supported {
		if !typ.IsSupported() {
			t.Errorf("%v.IsSupported() = false, want true", typ)
		}
	}

	unsupported := []Type{TypeCNAME, TypeNS, TypeSOA, TypeMX, TypeNone}
	for _, typ := range unsupported {
		if typ.IsSupported() {
			t.Errorf("%v.IsSupported() = true, want false", typ)
		}
	}
}

func TestParseOpcodeFoldsUnknown(t *testing.T) {
	if got := ParseOpcode(15); got != OpcodeQuery {
		t.Errorf("ParseOpcode(15) = %v, want OpcodeQuery", got)
	}
}

func TestParseRCodeFoldsOutOfRange(t *testing.T) {
	if got := ParseRCode(200); got != RCodeNoError {
		t.Errorf("ParseRCode(200) = %v, want RCodeNoError", got)
	}
}

func TestMulticastGroupAddresses(t *testing.T) {
	if got := MulticastGroupIPv4().IP.String(); got != MulticastAddrIPv4 {
		t.Errorf("MulticastGroupIPv4().IP = %q, want %q", got, MulticastAddrIPv4)
	}
	if got := MulticastGroupIPv6().IP.String(); got != MulticastAddrIPv6 {
		t.Errorf("MulticastGroupIPv6().IP = %q, want %q", got, MulticastAddrIPv6)
	}
}
