package gamefile

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/domain"
)

func sampleState(t *testing.T) domain.State {
	t.Helper()
	g := domain.New(domain.Multiplayer)
	require.NoError(t, g.Play(0, 0))
	require.NoError(t, g.Play(1, 1))
	return g.State()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	st := sampleState(t)
	data := Encode(st)
	require.Len(t, data, 17)
	require.Equal(t, []byte{0x89, 0x74, 0x74, 0x74, 0x0d, 0x0a, 0x1a, 0x0a, 0x01}, data[:9])

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, st.Word(), got.Word())
}

func TestDecodeSwapsReversedByteOrder(t *testing.T) {
	st := sampleState(t)
	data := Encode(st)
	binary.BigEndian.PutUint32(data[9:], 0xaabbccdd)
	binary.BigEndian.PutUint32(data[13:], st.Word())

	got, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, st.Word(), got.Word())
}

func TestDecodeRejectsBadFiles(t *testing.T) {
	good := Encode(sampleState(t))

	_, err := Decode(good[:10])
	require.ErrorIs(t, err, ErrCorrupt)

	badMagic := append([]byte(nil), good...)
	badMagic[4] = '\n'
	_, err = Decode(badMagic)
	require.ErrorIs(t, err, ErrCorrupt)

	badVersion := append([]byte(nil), good...)
	badVersion[8] = 2
	_, err = Decode(badVersion)
	require.ErrorIs(t, err, ErrCorrupt)

	badOrder := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(badOrder[9:], 0x12345678)
	_, err = Decode(badOrder)
	require.ErrorIs(t, err, ErrUnknownByteOrder)

	badState := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(badState[13:], 0x50000000)
	_, err = Decode(badState)
	require.ErrorIs(t, err, ErrCorrupt)
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestLockfileExcludes(t *testing.T) {
	target := filepath.Join(t.TempDir(), ".ttt")
	a, err := NewLockfile(target)
	require.NoError(t, err)
	b, err := NewLockfile(target)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(filepath.Dir(target), ".~lock.ttt"), a.Path())

	require.NoError(t, a.Lock())
	require.False(t, a.TryLock(), "a held lock cannot be taken twice")
	require.ErrorIs(t, b.Lock(), ErrLocked)

	require.NoError(t, a.Unlock())
	require.NoError(t, a.Unlock())
	_, err = os.Stat(a.Path())
	require.True(t, os.IsNotExist(err))

	require.True(t, b.TryLock())
	require.NoError(t, b.Unlock())
}

func TestOpenCloseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultGameName)

	f, err := Open(path)
	require.NoError(t, err)
	require.False(t, f.Existed)
	require.True(t, f.Game().State().IsBoardEmpty())

	_, err = Open(path)
	require.ErrorIs(t, err, ErrLocked, "second open must wait for the first to close")

	g := f.Game()
	require.NoError(t, g.Play(2, 2))
	f.SetGame(g)
	require.NoError(t, f.Close())

	f, err = Open(path)
	require.NoError(t, err)
	require.True(t, f.Existed)
	got, err := f.Game().State().IsCellX(2, 2)
	require.NoError(t, err)
	require.True(t, got)
	require.NoError(t, f.Discard())
}

func TestOpenRejectsCorruptAndReleasesLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultGameName)
	require.NoError(t, os.WriteFile(path, []byte("not a game"), 0o644))

	_, err := Open(path)
	require.ErrorIs(t, err, ErrCorrupt)

	lock, err := NewLockfile(path)
	require.NoError(t, err)
	require.True(t, lock.TryLock(), "failed open must release the lock")
	require.NoError(t, lock.Unlock())

	removed, err := Remove(path)
	require.ErrorIs(t, err, ErrCorrupt)
	require.False(t, removed)
	_, err = os.Stat(path)
	require.NoError(t, err, "corrupt file must be left in place")
}

func TestOpenRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game")
	require.NoError(t, os.Mkdir(path, 0o755))
	_, err := Open(path)
	require.ErrorIs(t, err, ErrNotRegular)
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultGameName)
	removed, err := Remove(path)
	require.NoError(t, err)
	require.False(t, removed)

	require.NoError(t, os.WriteFile(path, Encode(sampleState(t)), 0o644))
	removed, err = Remove(path)
	require.NoError(t, err)
	require.True(t, removed)
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestFindHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(LegacyHomeEnv, "")
	t.Setenv(HomeEnv, dir)
	got, err := FindHome()
	require.NoError(t, err)
	require.Equal(t, dir, got)

	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	t.Setenv(HomeEnv, file)
	_, err = FindHome()
	require.ErrorIs(t, err, ErrNoHome)

	t.Setenv(HomeEnv, filepath.Join(dir, "missing"))
	_, err = FindHome()
	require.ErrorIs(t, err, ErrNoHome)
}

func TestFindHomeLegacyVariable(t *testing.T) {
	legacy := t.TempDir()
	t.Setenv(HomeEnv, "")
	t.Setenv(LegacyHomeEnv, legacy)
	got, err := FindHome()
	require.NoError(t, err)
	require.Equal(t, legacy, got)

	preferred := t.TempDir()
	t.Setenv(HomeEnv, preferred)
	got, err = FindHome()
	require.NoError(t, err)
	require.Equal(t, preferred, got)
}
