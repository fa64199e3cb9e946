package mcpserver

// WorkspaceGuide describes how a Folio workspace is laid out and which
// markdown the live view renders. LLM consumers read it before editing.
const WorkspaceGuide = `# Folio Workspace Guide

Folio keeps notes as plain Markdown files grouped in folders under one root.

## Layout

` + "```" + `
<root>/
  Folder 1/
    note_1.md      # note source
    note_1.html    # HTML export, rewritten after every change
    note_2.md
  Folder 2/
` + "```" + `

- Folders are plain directories. New folders are named "Folder <n>".
- Notes are numbered ` + "`" + `note_<n>.md` + "`" + ` inside their folder. Numbers are never reused
  while a file with that name exists.
- The HTML file next to each note is generated. Do not edit it.

## Navigation

Folio is driven like a command bar. Exactly one view is active: home, folder,
note or settings.

1. ` + "`" + `list_folders` + "`" + ` shows folders, their notes and the current selection.
2. ` + "`" + `select_folder` + "`" + ` enters a folder by index.
3. ` + "`" + `open_note` + "`" + ` opens a note of the selected folder by index.
4. ` + "`" + `create_item` + "`" + ` creates a folder on the home view and a note elsewhere.
   The new note is opened.
5. ` + "`" + `read_note` + "`" + `, ` + "`" + `write_note` + "`" + `, ` + "`" + `render_note` + "`" + ` and ` + "`" + `export_note` + "`" + ` act on the open note.

## Markdown

The live view styles headings (# to ######), *emphasis*, **strong**, bullet
and numbered lists, ` + "`" + `inline code` + "`" + ` and fenced code blocks. Anything else is
shown as plain text. The HTML export also supports GitHub tables, task lists,
strikethrough, footnotes and definition lists.

Tags are written inline as ` + "`" + `#tag` + "`" + ` and are searchable with ` + "`" + `search_notes` + "`" + `.

## Rules

1. Pass ` + "`" + `if_match` + "`" + ` (the checksum from ` + "`" + `read_note` + "`" + `) to ` + "`" + `write_note` + "`" + ` when another
   editor may be active. A mismatch means the note changed; read it again.
2. ` + "`" + `write_note` + "`" + ` replaces the whole body.
3. Encoding is UTF-8.
`
