package native

import (
	"context"
	"os"
	"path/filepath"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/permission"
	"github.com/cwbudde/blueprint/internal/value"
)

// fileModule ports the reference engine's modules/file.rs over os and
// path/filepath, gating every path-touching operation through
// permission.CheckFSRead/Write/Delete (spec §4.5's fs.read/fs.write/
// fs.delete capabilities).
func fileModule() map[string]*value.NativeFunction {
	return map[string]*value.NativeFunction{
		"read":     nf("read", fileRead),
		"write":    nf("write", fileWrite),
		"append":   nf("append", fileAppend),
		"exists":   nf("exists", fileExists),
		"is_file":  nf("is_file", fileIsFile),
		"is_dir":   nf("is_dir", fileIsDir),
		"glob":     nf("glob", fileGlob),
		"mkdir":    nf("mkdir", fileMkdir),
		"rm":       nf("rm", fileRm),
		"cp":       nf("cp", fileCp),
		"mv":       nf("mv", fileMv),
		"readdir":  nf("readdir", fileReaddir),
		"basename": nf("basename", fileBasename),
		"dirname":  nf("dirname", fileDirname),
		"abspath":  nf("abspath", fileAbspath),
	}
}

func filePathArg(fn string, args []value.Value, i int) (string, error) {
	v, ok := argAt(args, i)
	if !ok {
		return "", berrors.NewArgumentError("file.%s() takes exactly %d argument(s)", fn, i+1)
	}
	return value.AsString(v)
}

func fileRead(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, berrors.NewArgumentError("file.read() takes exactly 1 argument (%d given)", len(args))
	}
	path, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSRead(ctx, path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, berrors.NewIoError(path, err.Error())
	}
	return value.NewString(string(data)), nil
}

func fileWrite(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, berrors.NewArgumentError("file.write() takes exactly 2 arguments (%d given)", len(args))
	}
	path, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSWrite(ctx, path); err != nil {
		return nil, err
	}
	content, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, berrors.NewIoError(path, err.Error())
	}
	return value.None, nil
}

func fileAppend(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, berrors.NewArgumentError("file.append() takes exactly 2 arguments (%d given)", len(args))
	}
	path, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSWrite(ctx, path); err != nil {
		return nil, err
	}
	content, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, berrors.NewIoError(path, err.Error())
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return nil, berrors.NewIoError(path, err.Error())
	}
	return value.None, nil
}

func fileExists(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	path, err := filePathArg("exists", args, 0)
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSRead(ctx, path); err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return value.Bool(statErr == nil), nil
}

func fileIsFile(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	path, err := filePathArg("is_file", args, 0)
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSRead(ctx, path); err != nil {
		return nil, err
	}
	info, statErr := os.Stat(path)
	return value.Bool(statErr == nil && !info.IsDir()), nil
}

func fileIsDir(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	path, err := filePathArg("is_dir", args, 0)
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSRead(ctx, path); err != nil {
		return nil, err
	}
	info, statErr := os.Stat(path)
	return value.Bool(statErr == nil && info.IsDir()), nil
}

func fileGlob(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	pattern, err := filePathArg("glob", args, 0)
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSRead(ctx, pattern); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, berrors.NewGlobError("%s", err.Error())
	}
	out := make([]value.Value, len(matches))
	for i, m := range matches {
		out[i] = value.NewString(m)
	}
	return value.NewList(out), nil
}

func fileMkdir(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	path, err := filePathArg("mkdir", args, 0)
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSWrite(ctx, path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, berrors.NewIoError(path, err.Error())
	}
	return value.None, nil
}

func fileRm(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	path, err := filePathArg("rm", args, 0)
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSDelete(ctx, path); err != nil {
		return nil, err
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return nil, berrors.NewIoError(path, statErr.Error())
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return nil, berrors.NewIoError(path, err.Error())
	}
	return value.None, nil
}

func fileCp(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, berrors.NewArgumentError("file.cp() takes exactly 2 arguments (%d given)", len(args))
	}
	src, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	dst, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSRead(ctx, src); err != nil {
		return nil, err
	}
	if err := permission.CheckFSWrite(ctx, dst); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, berrors.NewIoError(src+" -> "+dst, err.Error())
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return nil, berrors.NewIoError(src+" -> "+dst, err.Error())
	}
	return value.None, nil
}

func fileMv(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, berrors.NewArgumentError("file.mv() takes exactly 2 arguments (%d given)", len(args))
	}
	src, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	dst, err := value.AsString(args[1])
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSRead(ctx, src); err != nil {
		return nil, err
	}
	if err := permission.CheckFSWrite(ctx, dst); err != nil {
		return nil, err
	}
	if err := permission.CheckFSDelete(ctx, src); err != nil {
		return nil, err
	}
	if err := os.Rename(src, dst); err != nil {
		return nil, berrors.NewIoError(src+" -> "+dst, err.Error())
	}
	return value.None, nil
}

func fileReaddir(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	path, err := filePathArg("readdir", args, 0)
	if err != nil {
		return nil, err
	}
	if err := permission.CheckFSRead(ctx, path); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, berrors.NewIoError(path, err.Error())
	}
	out := make([]value.Value, len(entries))
	for i, e := range entries {
		out[i] = value.NewString(e.Name())
	}
	return value.NewList(out), nil
}

func fileBasename(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	path, err := filePathArg("basename", args, 0)
	if err != nil {
		return nil, err
	}
	return value.NewString(filepath.Base(path)), nil
}

func fileDirname(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	path, err := filePathArg("dirname", args, 0)
	if err != nil {
		return nil, err
	}
	return value.NewString(filepath.Dir(path)), nil
}

func fileAbspath(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	path, err := filePathArg("abspath", args, 0)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return value.NewString(path), nil
	}
	return value.NewString(abs), nil
}
