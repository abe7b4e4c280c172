package store

// Pending local changes carry usn = -1 until a successful incremental
// sync stamps them with the server's sequence number.
const pendingUSN = -1

const (
	selectMod = `SELECT mod FROM col WHERE id = 1;`

	// MAX keeps the counter strictly increasing even when several
	// mutations land in the same millisecond.
	updateMod = `UPDATE col SET mod = MAX(?, mod + 1) WHERE id = 1;`

	selectColMeta = `SELECT crt, mod, scm, ver, usn, ls FROM col WHERE id = 1;`

	updateColAfterSync = `UPDATE col SET mod = ?, usn = ?, ls = ? WHERE id = 1;`

	selectDeckNames = `SELECT name FROM decks ORDER BY name;`

	selectDeckNamesAndIDs = `SELECT id, name FROM decks;`

	selectDeckIDByName = `SELECT id FROM decks WHERE name = ?;`

	insertDeck = `INSERT INTO decks (name, mod, usn) VALUES (?, ?, ?);`

	deleteDeckByName = `DELETE FROM decks WHERE name = ?;`

	deleteNotesByDeck = `DELETE FROM notes WHERE deck_id = ?;`

	deleteCardsByDeck = `DELETE FROM cards WHERE deck_id = ?;`

	insertNote = `INSERT INTO notes (guid, deck_id, flds, tags, mod, usn)
		VALUES (?, ?, ?, ?, ?, ?);`

	insertCard = `INSERT INTO cards (note_id, deck_id, ord, due, mod, usn)
		VALUES (?, ?, ?, ?, ?, ?);`

	selectNotesInfo = `SELECT n.id, n.guid, d.name, n.flds, n.tags, n.mod
		FROM notes n
		JOIN decks d ON d.id = n.deck_id
		WHERE n.id = ?;`

	selectCardIDsByNote = `SELECT id FROM cards WHERE note_id = ? ORDER BY ord;`

	updateNoteFields = `UPDATE notes SET flds = ?, mod = ?, usn = ? WHERE id = ?;`

	deleteNoteByID = `DELETE FROM notes WHERE id = ?;`

	deleteCardsByNote = `DELETE FROM cards WHERE note_id = ?;`

	selectDeckCounts = `SELECT d.id, d.name,
			(SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id),
			(SELECT COUNT(*) FROM notes n WHERE n.deck_id = d.id)
		FROM decks d
		ORDER BY d.name;`

	selectPendingDecks = `SELECT id, name, mod, usn FROM decks WHERE usn = -1;`

	selectPendingNotes = `SELECT id, guid, deck_id, flds, tags, mod, usn FROM notes WHERE usn = -1;`

	selectPendingCards = `SELECT id, note_id, deck_id, ord, due, mod, usn FROM cards WHERE usn = -1;`

	upsertDeck = `INSERT INTO decks (id, name, mod, usn) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, mod = excluded.mod, usn = excluded.usn;`

	upsertNote = `INSERT INTO notes (id, guid, deck_id, flds, tags, mod, usn) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET guid = excluded.guid, deck_id = excluded.deck_id,
			flds = excluded.flds, tags = excluded.tags, mod = excluded.mod, usn = excluded.usn;`

	upsertCard = `INSERT INTO cards (id, note_id, deck_id, ord, due, mod, usn) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET note_id = excluded.note_id, deck_id = excluded.deck_id,
			ord = excluded.ord, due = excluded.due, mod = excluded.mod, usn = excluded.usn;`

	stampSyncedDecks = `UPDATE decks SET usn = ? WHERE usn = -1;`
	stampSyncedNotes = `UPDATE notes SET usn = ? WHERE usn = -1;`
	stampSyncedCards = `UPDATE cards SET usn = ? WHERE usn = -1;`

	deleteOrphanCards = `DELETE FROM cards WHERE note_id NOT IN (SELECT id FROM notes);`

	countNotesWithoutCards = `SELECT COUNT(*) FROM notes WHERE id NOT IN (SELECT note_id FROM cards);`
)
