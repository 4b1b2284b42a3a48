package searchd

const testConfigYAML = `
log_level: info
solar_system:
  - {name: Sun, radius_km: 0, period_days: 0, mass: 1989000000, angle_at_epoch: 0}
  - {name: Earth, radius_km: 149598023, period_days: 365.256, mass: 5972.37, angle_at_epoch: 1.75}
  - {name: Mars, radius_km: 227939200, period_days: 686.971, mass: 641.71, angle_at_epoch: 6.20}
problem:
  rocket_mass: 1000
  target_planet: Mars
algorithm:
  population_size: 4
  generations: 2
  fuel_coord: 0.000001
  waiting_time_coord: 0.0000001
  vicinity_coord: 0.000001
  seed: 7
  workers: 2
search_space:
  window_start_unix: 1700000000
`

// longConfigYAML runs long enough to be stopped mid-search
const longConfigYAML = `
log_level: info
solar_system:
  - {name: Sun, radius_km: 0, period_days: 0, mass: 1989000000, angle_at_epoch: 0}
  - {name: Earth, radius_km: 149598023, period_days: 365.256, mass: 5972.37, angle_at_epoch: 1.75}
  - {name: Mars, radius_km: 227939200, period_days: 686.971, mass: 641.71, angle_at_epoch: 6.20}
problem:
  rocket_mass: 1000
  target_planet: Mars
algorithm:
  population_size: 20
  generations: 100000
  fuel_coord: 0.000001
  waiting_time_coord: 0.0000001
  vicinity_coord: 0.000001
  seed: 7
search_space:
  window_start_unix: 1700000000
`

const noEarthConfigYAML = `
solar_system:
  - {name: Sun, radius_km: 0, period_days: 0, mass: 1989000000, angle_at_epoch: 0}
  - {name: Mars, radius_km: 227939200, period_days: 686.971, mass: 641.71, angle_at_epoch: 6.20}
problem:
  rocket_mass: 1000
  target_planet: Mars
algorithm:
  population_size: 4
  generations: 2
search_space:
  window_start_unix: 1700000000
`
