package netpacket

import (
	"bytes"
	"errors"
	"testing"
)

func TestSplitPayloadSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{"single byte", 1, 1},
		{"exactly one fragment", MaxFragmentSize, 1},
		{"one byte over", MaxFragmentSize + 1, 2},
		{"eight fragments", MaxFragmentSize * 8, 8},
		{"max packet size", MaxPacketSize, MaxFragmentsPerPacket},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := make([]byte, tc.size)
			for i := range payload {
				payload[i] = byte(i)
			}
			frags, err := SplitPayload(payload)
			if err != nil {
				t.Fatalf("SplitPayload() error = %v", err)
			}
			if len(frags) != tc.want {
				t.Fatalf("len(frags) = %d, want %d", len(frags), tc.want)
			}

			var rebuilt bytes.Buffer
			for i, f := range frags {
				if int(f.Header.FragmentID) != i {
					t.Errorf("fragment %d: FragmentID = %d, want %d", i, f.Header.FragmentID, i)
				}
				if int(f.Header.NumFragments) != tc.want {
					t.Errorf("fragment %d: NumFragments = %d, want %d", i, f.Header.NumFragments, tc.want)
				}
				rebuilt.Write(f.Data)
			}
			if !bytes.Equal(rebuilt.Bytes(), payload) {
				t.Errorf("reassembled fragments do not equal input payload")
			}
		})
	}
}

func TestSplitPayloadRejectsEmptyAndOversized(t *testing.T) {
	if _, err := SplitPayload(nil); !errors.Is(err, ErrPacketTooLarge) {
		t.Errorf("SplitPayload(nil) error = %v, want ErrPacketTooLarge", err)
	}
	if _, err := SplitPayload(make([]byte, MaxPacketSize+1)); !errors.Is(err, ErrPacketTooLarge) {
		t.Errorf("SplitPayload(oversized) error = %v, want ErrPacketTooLarge", err)
	}
}

func TestEncodeDecodeFragmentRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 500)
	f := Fragment{
		Header: FragmentHeader{FragmentSize: uint32(len(data)), FragmentID: 3, NumFragments: 256},
		Data:   data,
	}
	encoded, err := EncodeFragment(f)
	if err != nil {
		t.Fatalf("EncodeFragment() error = %v", err)
	}
	decoded, err := DecodeFragment(encoded)
	if err != nil {
		t.Fatalf("DecodeFragment() error = %v", err)
	}
	if decoded.Header != f.Header {
		t.Errorf("Header = %+v, want %+v", decoded.Header, f.Header)
	}
	if !bytes.Equal(decoded.Data, f.Data) {
		t.Errorf("Data mismatch after round trip")
	}
}

func TestDecodeFragmentRejectsBadFragmentID(t *testing.T) {
	f := Fragment{
		Header: FragmentHeader{FragmentSize: 4, FragmentID: 5, NumFragments: 5},
		Data:   []byte{1, 2, 3, 4},
	}
	encoded, err := EncodeFragment(f)
	if err != nil {
		t.Fatalf("EncodeFragment() error = %v", err)
	}
	if _, err := DecodeFragment(encoded); !errors.Is(err, ErrHeaderInvalid) {
		t.Fatalf("DecodeFragment() error = %v, want ErrHeaderInvalid", err)
	}
}

func TestEncodeFragmentNumFragments256(t *testing.T) {
	// NumFragments at the top of its documented range exercises the
	// wire's NumFragments-1 encoding at its own boundary.
	f := Fragment{
		Header: FragmentHeader{FragmentSize: 1, FragmentID: 255, NumFragments: 256},
		Data:   []byte{0x42},
	}
	encoded, err := EncodeFragment(f)
	if err != nil {
		t.Fatalf("EncodeFragment() error = %v", err)
	}
	decoded, err := DecodeFragment(encoded)
	if err != nil {
		t.Fatalf("DecodeFragment() error = %v", err)
	}
	if decoded.Header.NumFragments != 256 {
		t.Errorf("NumFragments = %d, want 256", decoded.Header.NumFragments)
	}
	if decoded.Header.FragmentID != 255 {
		t.Errorf("FragmentID = %d, want 255", decoded.Header.FragmentID)
	}
}
