package hash

import (
	"encoding/binary"

	"github.com/chazu/clc/types"
)

// serializer accumulates the deterministic byte stream Hash feeds to
// SHA-256. Every write is fixed-width or length-prefixed so two distinct
// trees never serialize to the same bytes by accident of concatenation.
type serializer struct {
	buf []byte
}

func (s *serializer) writeByte(b byte) { s.buf = append(s.buf, b) }

func (s *serializer) writeUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	s.buf = append(s.buf, tmp[:]...)
}

func (s *serializer) writeInt64(v int64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	s.buf = append(s.buf, tmp[:]...)
}

func (s *serializer) writeString(str string) {
	s.writeUint32(uint32(len(str)))
	s.buf = append(s.buf, str...)
}

func (s *serializer) writeBytes(b []byte) {
	s.writeUint32(uint32(len(b)))
	s.buf = append(s.buf, b...)
}

func (s *serializer) writeBool(b bool) {
	if b {
		s.writeByte(1)
	} else {
		s.writeByte(0)
	}
}

// writeNode dispatches on the frozen node's concrete type rather than a
// carried Kind field — HNode has no such field, only Go's type identity,
// which is exactly what a type switch is for.
func (s *serializer) writeNode(n HNode) {
	if n == nil {
		s.writeByte(0)
		return
	}
	switch v := n.(type) {
	case HVarRef:
		s.writeByte(TagVar)
		s.writeUint32(v.Depth)
		s.writeUint32(v.Slot)
	case HFreeRef:
		s.writeByte(TagFreeRef)
		s.writeString(v.Name)
	case HConst:
		s.writeByte(TagConst)
		s.writeConst(v.Value)
	case HType:
		s.writeByte(TagType)
		s.writeType(v.Value)
	case HLet:
		s.writeByte(TagLet)
		s.writeNode(v.Rhs)
		s.writeNode(v.Body)
	case HSeq:
		s.writeByte(TagSeq)
		s.writeNode(v.First)
		s.writeNode(v.Second)
	case HIf:
		s.writeByte(TagIf)
		s.writeNode(v.Cond)
		s.writeNode(v.Then)
		s.writeNode(v.Else)
	case HLambda:
		s.writeByte(TagLambda)
		s.writeBool(v.Recursive)
		s.writeNode(v.ParamTy)
		s.writeNode(v.Body)
	case HClosure:
		s.writeByte(TagClosure)
		s.writeNode(v.Lifted)
		s.writeUint32(uint32(len(v.Captured)))
		for _, c := range v.Captured {
			s.writeNode(c)
		}
	case HApply:
		s.writeByte(TagApply)
		s.writeString(v.Prim)
		s.writeUint32(uint32(len(v.Args)))
		for _, a := range v.Args {
			s.writeNode(a)
		}
	case HMatchOption:
		s.writeByte(TagMatchOption)
		s.writeNode(v.Scrutinee)
		s.writeNode(v.NoneCase)
		s.writeNode(v.SomeCase)
	case HMatchNat:
		s.writeByte(TagMatchNat)
		s.writeNode(v.Scrutinee)
		s.writeNode(v.PlusCase)
		s.writeNode(v.MinusCase)
	case HMatchList:
		s.writeByte(TagMatchList)
		s.writeNode(v.Scrutinee)
		s.writeNode(v.NilCase)
		s.writeNode(v.ConsCase)
	case HMatchVariant:
		s.writeByte(TagMatchVariant)
		s.writeNode(v.Scrutinee)
		s.writeString(v.Variant)
		s.writeUint32(uint32(len(v.Cases)))
		for _, c := range v.Cases {
			s.writeByte(TagMatchCase)
			s.writeString(c.Ctor)
			s.writeBool(c.Wildcard)
			s.writeNode(c.Body)
		}
	case HLoop:
		s.writeByte(TagLoop)
		s.writeNode(v.Init)
		s.writeNode(v.Body)
	case HLoopLeft:
		s.writeByte(TagLoopLeft)
		s.writeNode(v.Init)
		s.writeNode(v.Body)
	case HFold:
		s.writeByte(TagFold)
		s.writeUint32(uint32(v.Kind))
		s.writeNode(v.Coll)
		s.writeNode(v.Init)
		s.writeNode(v.Body)
	case HMap:
		s.writeByte(TagMap)
		s.writeUint32(uint32(v.Kind))
		s.writeNode(v.Coll)
		s.writeNode(v.Body)
	case HMapFold:
		s.writeByte(TagMapFold)
		s.writeUint32(uint32(v.Kind))
		s.writeNode(v.Coll)
		s.writeNode(v.Init)
		s.writeNode(v.Body)
	case HRecordConstruct:
		s.writeByte(TagRecordConstruct)
		s.writeString(v.Record)
		s.writeUint32(uint32(len(v.Fields)))
		for _, f := range v.Fields {
			s.writeNode(f)
		}
	case HProject:
		s.writeByte(TagProject)
		s.writeNode(v.Target)
		s.writeUint32(uint32(v.Index))
		s.writeString(v.Record)
		s.writeString(v.Field)
	case HSetField:
		s.writeByte(TagSetField)
		s.writeNode(v.Target)
		s.writeUint32(uint32(v.Index))
		s.writeString(v.Record)
		s.writeString(v.Field)
		s.writeNode(v.Value)
	case HTransfer:
		s.writeByte(TagTransfer)
		s.writeNode(v.Contract)
		s.writeNode(v.Amount)
		s.writeNode(v.Arg)
	case HFailwith:
		s.writeByte(TagFailwith)
		s.writeNode(v.Arg)
	case HCreateContract:
		s.writeByte(TagCreateContract)
		s.writeNode(v.StorageTy)
		s.writeNode(v.ParamTy)
		s.writeNode(v.Body)
		s.writeNode(v.Delegate)
		s.writeNode(v.Amount)
		s.writeNode(v.InitStorage)
	case HContractAt:
		s.writeByte(TagContractAt)
		s.writeNode(v.Addr)
		s.writeNode(v.Of)
	case HUnpack:
		s.writeByte(TagUnpack)
		s.writeNode(v.Bytes)
		s.writeNode(v.Of)
	default:
		s.writeByte(0)
	}
}

func (s *serializer) writeType(t *types.Type) {
	if t == nil {
		s.writeByte(0)
		return
	}
	s.writeByte(1)
	s.writeUint32(uint32(t.Kind))
	s.writeString(t.Name)
	s.writeUint32(uint32(len(t.Elems)))
	for _, e := range t.Elems {
		s.writeType(e)
	}
	s.writeType(t.Elem)
	s.writeType(t.Key)
	s.writeType(t.Value)
	s.writeType(t.Arg)
	s.writeType(t.Res)
	s.writeType(t.Env)
}

func (s *serializer) writeConst(c *types.Const) {
	if c == nil {
		s.writeByte(0)
		return
	}
	s.writeByte(1)
	s.writeUint32(uint32(c.Kind))
	s.writeBool(c.Bool)
	s.writeInt64(c.Int)
	s.writeString(c.Str)
	s.writeBytes(c.Bytes)
	s.writeString(c.Field)
	s.writeUint32(uint32(len(c.Elems)))
	for _, e := range c.Elems {
		s.writeConst(e)
	}
	s.writeUint32(uint32(len(c.Entries)))
	for _, e := range c.Entries {
		s.writeConst(e.Key)
		s.writeConst(e.Value)
	}
	s.writeConst(c.Inner)
	s.writeUint32(uint32(len(c.Fields)))
	for _, f := range c.Fields {
		s.writeString(f.Name)
		s.writeConst(f.Value)
	}
}

// Serialize renders the frozen tree c to its deterministic byte form,
// prefixed with HashVersion so a future tag-scheme change can never be
// mistaken for a cache hit against bytes written under an older one.
func Serialize(c *HContract) []byte {
	s := &serializer{}
	s.writeByte(HashVersion)
	s.writeByte(TagContract)
	s.writeNode(c.Storage)
	s.writeUint32(uint32(len(c.Globals)))
	for _, g := range c.Globals {
		s.writeByte(TagGlobal)
		s.writeNode(g.Value)
	}
	s.writeUint32(uint32(len(c.Entries)))
	for _, e := range c.Entries {
		s.writeByte(TagEntry)
		s.writeString(e.Name)
		s.writeNode(e.ParamTy)
		s.writeNode(e.Body)
	}
	return s.buf
}
