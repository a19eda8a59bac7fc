package codegen

import (
	"fmt"
	"strings"

	"github.com/capy-lang/capyc/internal/types"
)

// runtimePrologue is emitted once, ahead of any generated declaration, and
// declares the handful of runtime-support types every translation unit
// needs regardless of what the source module uses: the capy_any carrier,
// the reflect-record shape capy_typeinfo entries are stored as, and
// capy_list, the stdlib List container's storage (§9 "runtime polymorphism
// ... exclusively through any plus reflection (see List)"). capy_any is
// declared here rather than left to typeEmitter.anyStruct's lazy emission
// so capy_list can reference it unconditionally; ctype.go's typeEmitter
// seeds its dedup table so that lazy path never emits a second, conflicting
// definition.
const runtimePrologue = `typedef struct capy_any {
  size_t type_id;
  void* data;
} capy_any;

typedef struct capy_typeinfo_entry {
  int kind;
  size_t size;
  size_t align;
  long long elem;  /* element type id for RKArray/RKSlice, -1 otherwise */
  size_t length;   /* fixed array length for RKArray, 0 otherwise */
} capy_typeinfo_entry;

typedef struct capy_list {
  size_t len;
  size_t cap;
  capy_any* buf;
} capy_list;

static capy_list capy_list_make(void) {
  capy_list l;
  l.len = 0;
  l.cap = 2;
  l.buf = (capy_any*)malloc(sizeof(capy_any) * l.cap);
  return l;
}

static void capy_list_push(capy_list* l, capy_any v) {
  if (l->len >= l->cap) {
    l->cap *= 2;
    l->buf = (capy_any*)realloc(l->buf, sizeof(capy_any) * l->cap);
  }
  l->buf[l->len++] = v;
}

`

// emitReflectTable renders the global per-type-id array get_type_info and
// the reflective printer both index into (§3 "Reflection record", §4.5
// "Reflection tables"). Every type id the table has registered gets an
// entry, in id order, so `capy_typeinfo[id]` is a direct array index with
// no separate lookup structure. Array/Slice entries also carry their
// element type id and (for Array) fixed length, which is what lets
// capy_print_any recurse into a composite instead of only handling scalars.
func (g *Generator) emitReflectTable() string {
	var b strings.Builder
	n := g.table.Len()
	b.WriteString("static const capy_typeinfo_entry capy_typeinfo[] = {\n")
	for id := 0; id < n; id++ {
		ty := g.table.Get(types.ID(id))
		rec := types.BuildReflectRecord(types.ID(id), ty)
		elem := -1
		var length uint64
		switch t := rec.Payload.(type) {
		case *types.Array:
			elem = int(g.table.IDOf(t.Elem))
			length = t.Length
		case *types.Slice:
			elem = int(g.table.IDOf(t.Elem))
		}
		fmt.Fprintf(&b, "  { %d, %dULL, %dULL, %d, %dULL },\n", int(rec.Kind), rec.Size, rec.Align, elem, length)
	}
	b.WriteString("};\n")
	return b.String()
}

// runtimePrintFns is appended after the reflect table (it references
// capy_typeinfo by name, so it must follow). It implements println's
// polymorphic formatting purely from the reflection table plus the raw
// data pointer any carries, per §9 "Dynamic dispatch is done through an
// explicit any value plus a reflection lookup; there are no vtables."
// Array and Slice recurse element-by-element using the reflect table's own
// elem/length fields, so a slice-of-scalars (S4's exact scenario) prints
// without a second, type-specific code path. Struct/Enum/Variant stay
// shallow — recursing through a struct's member list would need the
// member *names* the flat entry doesn't carry, left for a future richer
// reflect record; capy_list (the one struct-shaped composite this runtime
// does need to print) has its own capy_list_print instead of going through
// this generic path at all.
const runtimePrintFns = `
static size_t capy_stride_of(const capy_typeinfo_entry* t) {
  size_t a = t->align ? t->align : 1;
  size_t r = t->size % a;
  return r ? t->size + (a - r) : t->size;
}

static void capy_print_any(capy_any v) {
  const capy_typeinfo_entry *t = &capy_typeinfo[v.type_id];
  switch (t->kind) {
  case 0: { /* RKInt: size distinguishes width, sign is not tracked here */
    switch (t->size) {
    case 1: printf("%d", (int)*(int8_t*)v.data); break;
    case 2: printf("%d", (int)*(int16_t*)v.data); break;
    case 4: printf("%d", *(int32_t*)v.data); break;
    default: printf("%lld", (long long)*(int64_t*)v.data); break;
    }
    break;
  }
  case 1: /* RKFloat */
    if (t->size == 4) printf("%g", (double)*(float*)v.data);
    else printf("%g", *(double*)v.data);
    break;
  case 2: printf("%s", *(bool*)v.data ? "true" : "false"); break; /* RKBool */
  case 3: printf("%u", *(uint32_t*)v.data); break; /* RKChar */
  case 4: printf("%s", *(const char**)v.data); break; /* RKString */
  case 6: { /* RKArray: contiguous storage, fixed length from the entry */
    const capy_typeinfo_entry *et = &capy_typeinfo[t->elem];
    size_t stride = capy_stride_of(et);
    printf("[ ");
    for (size_t i = 0; i < t->length; i++) {
      if (i) printf(", ");
      capy_any ev; ev.type_id = (size_t)t->elem; ev.data = (char*)v.data + i * stride;
      capy_print_any(ev);
    }
    printf(" ]");
    break;
  }
  case 7: { /* RKSlice: { ptr; size_t len } — first field pointer-width
               regardless of element type, so this reads it generically */
    const capy_typeinfo_entry *et = &capy_typeinfo[t->elem];
    void* const* pptr = (void* const*)v.data;
    void* base = *pptr;
    size_t len = *(const size_t*)((const char*)v.data + sizeof(void*));
    size_t stride = capy_stride_of(et);
    printf("[ ");
    for (size_t i = 0; i < len; i++) {
      if (i) printf(", ");
      capy_any ev; ev.type_id = (size_t)t->elem; ev.data = (char*)base + i * stride;
      capy_print_any(ev);
    }
    printf(" ]");
    break;
  }
  default: printf("<value>"); break;
  }
}

static void capy_println(capy_any v) {
  capy_print_any(v);
  printf("\n");
}

static void capy_list_print(const capy_list* l) {
  printf("[ ");
  for (size_t i = 0; i < l->len; i++) {
    if (i) printf(", ");
    capy_print_any(l->buf[i]);
  }
  printf(" ]");
}
`

// entryTrampoline emits the C-ABI main(argc, argv): it populates the
// `args: []str` global from argv, runs capy_init() (non-constant global
// initializers, declaration order), then dispatches into the module's own
// `main` binding if present, propagating its integer result as the process
// exit code (§4.5 "Entry point").
func (g *Generator) entryTrampoline(entry string, entryVoid bool) string {
	var b strings.Builder
	b.WriteString("\nint main(int argc, char** argv) {\n")
	b.WriteString("  capy_args_storage.ptr = (const char**)argv;\n")
	b.WriteString("  capy_args_storage.len = (size_t)argc;\n")
	b.WriteString("  capy_init();\n")
	switch {
	case entry == "":
		b.WriteString("  return 0;\n}\n")
	case entryVoid:
		fmt.Fprintf(&b, "  %s();\n  return 0;\n}\n", entry)
	default:
		fmt.Fprintf(&b, "  return (int)%s();\n}\n", entry)
	}
	return b.String()
}
