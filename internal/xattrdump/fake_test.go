package xattrdump_test

import (
	"syscall"
)

type fakeAttr struct {
	name  string
	value []byte
}

// fakeSource serves attributes from memory. Hooks run before the n-th call
// (counting from 1) to Listxattr or Getxattr and can change the attributes
// to simulate concurrent modification between size query and fetch.
type fakeSource struct {
	files map[string][]fakeAttr
	calls []string

	nlist, nget int
	beforeList  map[int]func(*fakeSource)
	beforeGet   map[int]func(*fakeSource)
}

func newFakeSource(files map[string][]fakeAttr) *fakeSource {
	return &fakeSource{
		files:      files,
		beforeList: map[int]func(*fakeSource){},
		beforeGet:  map[int]func(*fakeSource){},
	}
}

func (s *fakeSource) set(path, name string, value []byte) {
	for i, a := range s.files[path] {
		if a.name == name {
			s.files[path][i].value = value
			return
		}
	}
	s.files[path] = append(s.files[path], fakeAttr{name, value})
}

func (s *fakeSource) remove(path, name string) {
	var attrs []fakeAttr
	for _, a := range s.files[path] {
		if a.name != name {
			attrs = append(attrs, a)
		}
	}
	s.files[path] = attrs
}

func fill(dest, data []byte) (int, error) {
	if len(dest) == 0 {
		return len(data), nil
	}
	if len(dest) < len(data) {
		return -1, syscall.ERANGE
	}
	return copy(dest, data), nil
}

func (s *fakeSource) Listxattr(path string, dest []byte) (int, error) {
	s.nlist++
	s.calls = append(s.calls, "list "+path)
	if h := s.beforeList[s.nlist]; h != nil {
		h(s)
	}

	attrs, ok := s.files[path]
	if !ok {
		return -1, syscall.ENOENT
	}

	var buf []byte
	for _, a := range attrs {
		buf = append(buf, a.name...)
		buf = append(buf, 0)
	}
	return fill(dest, buf)
}

func (s *fakeSource) Getxattr(path, name string, dest []byte) (int, error) {
	s.nget++
	s.calls = append(s.calls, "get "+path+" "+name)
	if h := s.beforeGet[s.nget]; h != nil {
		h(s)
	}

	attrs, ok := s.files[path]
	if !ok {
		return -1, syscall.ENOENT
	}
	for _, a := range attrs {
		if a.name == name {
			return fill(dest, a.value)
		}
	}
	return -1, syscall.ENODATA
}
