package mysql

// Rows come back in server order; the repo folds consecutive positions into
// groups and connections.

const listRoomOffersSQL = `
SELECT
  group_pos,
  ref_id,
  name,
  room_type,
  min_occupancy,
  max_occupancy,
  num_adults,
  occupancy,
  currency,
  sales_amount,
  unit_sales_amount,
  diff_sales_amount,
  diff_unit_sales_amount
FROM room_offers
WHERE trip_id = ? AND module_id = ?
ORDER BY group_pos, item_pos
`

const listModuleComponentsSQL = `
SELECT
  connection_pos,
  slot_category_ref_id,
  room_type,
  min_occupancy,
  max_occupancy,
  num_adults,
  occupancy
FROM module_components
WHERE trip_id = ? AND module_id = ?
ORDER BY connection_pos, component_pos
`
